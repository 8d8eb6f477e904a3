package specification

import (
	"gorm.io/gorm"
)

// ByDocUid filters documents by their stable uid.
type ByDocUid struct {
	DocUid string
}

func (s ByDocUid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ?", s.DocUid)
}

// ByStatus filters documents by ingestion status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
