package models

import "strings"

// Contact is a mailing-list entry pushed to the email-marketing provider.
type Contact struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	ListID string `json:"list_id"`
}

// DisplayName returns the part of email before the first "@",
// or the whole string when there is none.
func DisplayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func NewContact(email, listID string) Contact {
	return Contact{
		Name:   DisplayName(email),
		Email:  email,
		ListID: listID,
	}
}
