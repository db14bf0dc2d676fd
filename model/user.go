package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// User is a registered donor, volunteer or admin. Fields the client sends
// beyond the known ones are kept in Extra.
type User struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string                 `bson:"email,omitempty" json:"email,omitempty"`
	Name     string                 `bson:"name,omitempty" json:"name,omitempty"`
	Avatar   string                 `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role     string                 `bson:"role,omitempty" json:"role,omitempty"`     // donor | volunteer | admin
	Status   string                 `bson:"status,omitempty" json:"status,omitempty"` // active | blocked
	District string                 `bson:"district,omitempty" json:"district,omitempty"`
	Upazila  string                 `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Blood    string                 `bson:"blood,omitempty" json:"blood,omitempty"`
	Extra    map[string]interface{} `bson:",inline" json:"-"`
}

// UserSchema constrains user writes.
var UserSchema = Schema{
	Enums: map[string][]string{
		"role":   {RoleDonor, RoleVolunteer, RoleAdmin},
		"status": {StatusActive, StatusBlocked},
	},
	Immutable: []string{"_id"},
	Record:    func() interface{} { return &User{} },
}
