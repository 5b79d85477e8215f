// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"
)

// Variant selects one of the three principal stores. It is also the value
// of the loginType token claim.
type Variant string

const (
	VariantStudent Variant = "student"
	VariantAdmin   Variant = "admin"
	VariantFaculty Variant = "faculty"
)

// Variants lists every variant in a stable order.
var Variants = []Variant{VariantStudent, VariantAdmin, VariantFaculty}

// ParseVariant maps a loginType value to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantStudent, VariantAdmin, VariantFaculty:
		return Variant(s), true
	default:
		return "", false
	}
}

// Role is the authorization role carried by a principal. A promoted student
// keeps its student record with Role=RoleAdmin while also owning an admin
// record, which is why the loginType claim exists next to it.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
)

// NormalizeEmail lowercases and trims an email. Every lookup and every write
// goes through it so that addresses differing only in case collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is an authenticable record from one of the three stores.
//
// Password holds either a bcrypt hash or, for records inserted out of band,
// a plaintext value awaiting migration. It never leaves the server.
type Principal struct {
	ID        string
	Variant   Variant
	Name      string
	Email     string
	Password  string
	Role      Role
	Active    bool
	ClubName  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Admin only: the student this admin was promoted from, and the
	// faculty member who created it.
	PromotedFrom string
	CreatedBy    string

	// Exactly one of these is set, matching Variant.
	Student *StudentProfile
	Faculty *FacultyProfile
	Admin   *AdminProfile
}

// StudentProfile holds student-only fields. The auth core only round-trips them.
type StudentProfile struct {
	StudentID   string `json:"studentId"`
	Department  string `json:"department"`
	Year        string `json:"year"`
	Phone       string `json:"phone"`
	Points      int    `json:"points"`
	IsClubAdmin bool   `json:"isClubAdmin"`
}

// FacultyProfile holds faculty-only fields.
type FacultyProfile struct {
	FacultyID  string `json:"facultyId"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
}

// AdminProfile holds club-admin-only fields.
type AdminProfile struct {
	Position string `json:"position,omitempty"`
}

// PublicPrincipal is the credential-free shape returned to callers.
type PublicPrincipal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         Role            `json:"role"`
	Active       bool            `json:"isActive"`
	ClubName     string          `json:"clubName,omitempty"`
	PromotedFrom string          `json:"promotedFrom,omitempty"`
	Student      *StudentProfile `json:"student,omitempty"`
	Faculty      *FacultyProfile `json:"faculty,omitempty"`
	Admin        *AdminProfile   `json:"admin,omitempty"`
}

// Public strips the credential.
func (p *Principal) Public() PublicPrincipal {
	return PublicPrincipal{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Role:         p.Role,
		Active:       p.Active,
		ClubName:     p.ClubName,
		PromotedFrom: p.PromotedFrom,
		Student:      p.Student,
		Faculty:      p.Faculty,
		Admin:        p.Admin,
	}
}

// WithoutCredential returns a copy with Password cleared.
func (p *Principal) WithoutCredential() *Principal {
	c := *p
	c.Password = ""
	return &c
}
