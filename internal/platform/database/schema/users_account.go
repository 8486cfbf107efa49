// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns shared by SQL repositories and migrations.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Username         string
	Email            string
	Password         string
	FullName         string
	AvatarURL        string
	CoverImageURL    string
	RefreshTokenHash string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	Password:         "passwordhash",
	FullName:         "fullname",
	AvatarURL:        "avatarurl",
	CoverImageURL:    "coverimageurl",
	RefreshTokenHash: "refreshtokenhash",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns the columns hydrated into an account entity.
// The refresh token digest is excluded; it is only compared in SQL.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.FullName,
		t.AvatarURL, t.CoverImageURL, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList joins [UserAccountTable.Columns] for use in a SELECT clause.
func (t UserAccountTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
