package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Donation request states. pending → in progress → done | canceled, and
// pending → canceled. Only the lone "in progress" update is guarded.
const (
	RequestPending    = "pending"
	RequestInProgress = "in progress"
	RequestDone       = "done"
	RequestCanceled   = "canceled"
)

// DonationRequest is a request for blood posted by a registered user.
type DonationRequest struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	RequesterName  string                 `bson:"requesterName,omitempty" json:"requesterName,omitempty"`
	RequesterEmail string                 `bson:"requesterEmail,omitempty" json:"requesterEmail,omitempty"`
	RecipientName  string                 `bson:"recipientName,omitempty" json:"recipientName,omitempty"`
	District       string                 `bson:"district,omitempty" json:"district,omitempty"`
	Upazila        string                 `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Hospital       string                 `bson:"hospital,omitempty" json:"hospital,omitempty"`
	Address        string                 `bson:"address,omitempty" json:"address,omitempty"`
	DonationDate   string                 `bson:"donationDate,omitempty" json:"donationDate,omitempty"`
	DonationTime   string                 `bson:"donationTime,omitempty" json:"donationTime,omitempty"`
	Message        string                 `bson:"message,omitempty" json:"message,omitempty"`
	RequestStatus  string                 `bson:"requestStatus,omitempty" json:"requestStatus,omitempty"`
	PostTime       int64                  `bson:"postTime" json:"postTime"` // epoch millis, server assigned
	DonorName      string                 `bson:"donorName,omitempty" json:"donorName,omitempty"`
	DonorEmail     string                 `bson:"donorEmail,omitempty" json:"donorEmail,omitempty"`
	VolunteerEmail string                 `bson:"volunteerEmail,omitempty" json:"volunteerEmail,omitempty"`
	Extra          map[string]interface{} `bson:",inline" json:"-"`
}

// RequestSchema constrains donation request writes.
var RequestSchema = Schema{
	Enums: map[string][]string{
		"requestStatus": {RequestPending, RequestInProgress, RequestDone, RequestCanceled},
	},
	Immutable: []string{"_id", "postTime"},
	Record:    func() interface{} { return &DonationRequest{} },
}
