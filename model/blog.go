package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	BlogPending   = "pending"
	BlogPublished = "published"
)

type Blog struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	Title      string                 `bson:"title,omitempty" json:"title,omitempty"`
	Body       string                 `bson:"body,omitempty" json:"body,omitempty"`
	Thumbnail  string                 `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Author     string                 `bson:"author,omitempty" json:"author,omitempty"`
	BlogStatus string                 `bson:"blogStatus,omitempty" json:"blogStatus,omitempty"` // pending | published
	Extra      map[string]interface{} `bson:",inline" json:"-"`
}

var BlogSchema = Schema{
	Enums: map[string][]string{
		"blogStatus": {BlogPending, BlogPublished},
	},
	Immutable: []string{"_id"},
	Record:    func() interface{} { return &Blog{} },
}
