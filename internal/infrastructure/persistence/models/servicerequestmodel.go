package models

import "srdashboard/internal/shared/constants"

// ServiceRequestModel stores timestamps as unix milliseconds (UTC). UpdatedAt
// is owned by the domain and not auto-managed. service_number must compare
// case-sensitively; the MySQL migration declares it with utf8mb4_bin collation.
type ServiceRequestModel struct {
	ID                      uint   `gorm:"primaryKey"`
	SID                     string `gorm:"column:sid;uniqueIndex:idx_sr_sid;size:32;not null"`
	ServiceNumber           string `gorm:"uniqueIndex:idx_sr_service_number;size:100;not null"`
	Node                    string `gorm:"size:255"`
	Issue                   string `gorm:"size:255"`
	Remark                  string `gorm:"type:text"`
	OpenDate                int64  `gorm:"not null"`
	ClosedDate              *int64
	ResponsePersonMobitel   string `gorm:"size:255"`
	ResponsePersonHuawei    string `gorm:"size:255"`
	Status                  string `gorm:"size:20;not null;index:idx_sr_status"`
	RCAFilePath             string `gorm:"column:rca_file_path;size:512"`
	Description             string `gorm:"type:text"`
	WorkAroundRectification string `gorm:"type:text"`
	CreatedBy               uint   `gorm:"not null"`
	UpdatedBy               uint   `gorm:"not null"`
	CreatedAt               int64  `gorm:"autoCreateTime:milli;not null;index:idx_sr_created_at"`
	UpdatedAt               int64  `gorm:"autoUpdateTime:false;not null"`
}

func (ServiceRequestModel) TableName() string {
	return constants.TableServiceRequests
}
