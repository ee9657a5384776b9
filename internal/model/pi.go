package model

// PI is a principal investigator known to the roster.
type PI struct {
	Username string              `json:"username" gorm:"primaryKey;size:128"`
	Email    string              `json:"email"`
	Projects []PIProjectRelation `json:"projects,omitempty" gorm:"foreignKey:Username;references:Username"`
}

func (PI) TableName() string {
	return "pis"
}

type PIProjectRelation struct {
	Username    string `json:"username" gorm:"primaryKey;size:128"`
	ProjectCode string `json:"projectCode" gorm:"primaryKey;size:64"`
}

func (p PI) ProjectCodes() []string {
	codes := make([]string, 0, len(p.Projects))
	for _, rel := range p.Projects {
		codes = append(codes, rel.ProjectCode)
	}
	return codes
}
