// Package models defines the client-side data model of userdesk: remote
// users, the local overlay of edits and deletions, and page windows.
package models

import "strings"

// User is one record of the remote directory. ID is assigned by the remote
// source and is stable.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Fields returns the editable part of u.
func (u User) Fields() UserFields {
	return UserFields{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// Matches reports whether term is a case-insensitive substring of the first
// name, the last name or the email. An empty term matches every user.
func (u User) Matches(term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(u.FirstName), needle) ||
		strings.Contains(strings.ToLower(u.LastName), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle)
}

// UserFields is the body of an update request.
type UserFields struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Patch turns a full field set into an edit patch that overrides all three
// fields.
func (f UserFields) Patch() EditPatch {
	first, last, email := f.FirstName, f.LastName, f.Email
	return EditPatch{FirstName: &first, LastName: &last, Email: &email}
}
