package services

import (
	"context"
	"errors"
	"regexp"

	"bdcserver/model"
	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// GetUserByEmail returns the stored user document, or nil if there is none.
func GetUserByEmail(ctx context.Context, st store.Store, email string) (store.Document, error) {
	if email == "" {
		return nil, nil
	}
	return st.FindOne(ctx, store.Users, query.Filter{query.Eq("email", email)})
}

// AddUser registers a user. Status is always set to active and role defaults
// to donor.
func AddUser(ctx context.Context, st store.Store, body map[string]interface{}) (*store.InsertResult, error) {
	if err := model.CheckFieldNames(body); err != nil {
		return nil, err
	}
	delete(body, "_id")
	body["status"] = model.StatusActive
	if _, ok := body["role"]; !ok {
		body["role"] = model.RoleDonor
	}
	if err := model.UserSchema.CheckEnums(body); err != nil {
		return nil, err
	}

	var user model.User
	if err := model.Decode(body, &user); err != nil {
		return nil, err
	}
	if !emailRegex.MatchString(user.Email) {
		return nil, &model.ValidationError{Field: "email", Reason: "a valid email is required"}
	}

	doc, err := model.Encode(user)
	if err != nil {
		return nil, err
	}
	return st.InsertOne(ctx, store.Users, doc)
}

// UpdateUserByEmail applies a profile update to the user with email.
func UpdateUserByEmail(ctx context.Context, st store.Store, email string, set map[string]interface{}) (*store.UpdateResult, error) {
	if email == "" {
		return nil, &model.ValidationError{Field: "email", Reason: "query parameter is required"}
	}
	if err := model.UserSchema.CheckUpdate(set); err != nil {
		return nil, err
	}
	return st.UpdateOne(ctx, store.Users, query.Filter{query.Eq("email", email)}, set)
}

// UpdateUserByID applies an admin role/status change.
func UpdateUserByID(ctx context.Context, st store.Store, id primitive.ObjectID, set map[string]interface{}) (*store.UpdateResult, error) {
	if err := model.UserSchema.CheckUpdate(set); err != nil {
		return nil, err
	}
	return st.UpdateOne(ctx, store.Users, byID(id), set)
}

// ListUsers returns one page of users in registration order.
func ListUsers(ctx context.Context, st store.Store, size, index interface{}) ([]store.Document, error) {
	return findPage(ctx, st, store.Users, query.Query{}, size, index)
}

// SearchDonors matches users whose fields contain every non-empty argument,
// case-insensitively.
func SearchDonors(ctx context.Context, st store.Store, email, district, upazila, blood string) ([]store.Document, error) {
	f := query.And(
		query.Contains("email", email),
		query.Contains("district", district),
		query.Contains("upazila", upazila),
		query.Contains("blood", blood),
	)
	return st.Find(ctx, store.Users, query.Query{Filter: f})
}

func byID(id primitive.ObjectID) query.Filter {
	return query.Filter{query.Eq(query.IDField, id)}
}

// findPage runs q with the page built from raw parameters. Parameters that
// do not form a valid page yield an empty result without a store call.
func findPage(ctx context.Context, st store.Store, col store.Collection, q query.Query, size, index interface{}) ([]store.Document, error) {
	page, err := query.ParsePage(size, index)
	if errors.Is(err, query.ErrInvalidPage) {
		return []store.Document{}, nil
	}
	q.Page = &page
	return st.Find(ctx, col, q)
}
