package models

// Skill is a canonical, normalized skill tag shared across users and applications.
type Skill struct {
	ID        int64  `json:"id" db:"id"`
	SkillName string `json:"skillName" db:"skill_name" example:"javascript"`
}

// AcademicCredential is a qualification shared by every application that submits the same triple.
type AcademicCredential struct {
	ID            int64  `json:"id" db:"id"`
	Qualification string `json:"qualification" db:"qualification" example:"BSc"`
	Institution   string `json:"institution" db:"institution" example:"RMIT"`
	Year          int    `json:"year" db:"year" example:"2023"`
}
