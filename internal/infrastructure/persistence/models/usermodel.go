package models

import "srdashboard/internal/shared/constants"

// UserModel is the read-mostly user directory. Credentials live with the
// identity provider that issues access tokens, not here.
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex:idx_users_username;size:50;not null"`
	Role      string `gorm:"size:20;not null;default:user"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
