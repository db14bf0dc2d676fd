package services

import (
	"context"
	"errors"

	"bdcserver/model"
	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrIncompleteProgress rejects a status update that moves a request to
// "in progress" without any assignment data alongside it.
var ErrIncompleteProgress = errors.New("in progress update without assignment data")

// CheckStatusUpdate is the only transition rule enforced on requests.
func CheckStatusUpdate(set map[string]interface{}) error {
	if len(set) == 1 && set["requestStatus"] == model.RequestInProgress {
		return ErrIncompleteProgress
	}
	return nil
}

// CreateRequest stores a new donation request stamped with clock.Next().
// requestStatus defaults to pending.
func CreateRequest(ctx context.Context, st store.Store, clock *PostClock, body map[string]interface{}) (*store.InsertResult, error) {
	if err := model.CheckFieldNames(body); err != nil {
		return nil, err
	}
	delete(body, "_id")
	delete(body, "postTime")
	if _, ok := body["requestStatus"]; !ok {
		body["requestStatus"] = model.RequestPending
	}
	if err := model.RequestSchema.CheckEnums(body); err != nil {
		return nil, err
	}

	var req model.DonationRequest
	if err := model.Decode(body, &req); err != nil {
		return nil, err
	}
	req.PostTime = clock.Next()

	doc, err := model.Encode(req)
	if err != nil {
		return nil, err
	}
	return st.InsertOne(ctx, store.DonationRequests, doc)
}

// ListRequestsByRequester returns one page of email's requests, newest first.
func ListRequestsByRequester(ctx context.Context, st store.Store, email string, size, index interface{}) ([]store.Document, error) {
	q := query.Query{
		Filter: query.Filter{query.Eq("requesterEmail", email)},
		Sort:   []query.SortField{{Field: "postTime", Desc: true}},
	}
	return findPage(ctx, st, store.DonationRequests, q, size, index)
}

// CountRequests counts requests whose fields equal every entry of match.
func CountRequests(ctx context.Context, st store.Store, match map[string]interface{}) (int64, error) {
	if err := model.CheckFieldNames(match); err != nil {
		return 0, err
	}
	f := query.Filter{}
	for field, v := range match {
		f = append(f, query.Eq(field, v))
	}
	return st.Count(ctx, store.DonationRequests, f)
}

func ListRequests(ctx context.Context, st store.Store, size, index interface{}) ([]store.Document, error) {
	return findPage(ctx, st, store.DonationRequests, query.Query{}, size, index)
}

func ListPendingRequests(ctx context.Context, st store.Store) ([]store.Document, error) {
	return st.Find(ctx, store.DonationRequests, query.Query{
		Filter: query.Filter{query.Eq("requestStatus", model.RequestPending)},
	})
}

func GetRequest(ctx context.Context, st store.Store, id primitive.ObjectID) (store.Document, error) {
	return st.FindOne(ctx, store.DonationRequests, byID(id))
}

// UpdateRequest edits request fields. postTime and _id are immutable.
func UpdateRequest(ctx context.Context, st store.Store, id primitive.ObjectID, set map[string]interface{}) (*store.UpdateResult, error) {
	if err := model.RequestSchema.CheckUpdate(set); err != nil {
		return nil, err
	}
	return st.UpdateOne(ctx, store.DonationRequests, byID(id), set)
}

// UpdateRequestStatus is UpdateRequest behind CheckStatusUpdate. A rejected
// payload never reaches the store.
func UpdateRequestStatus(ctx context.Context, st store.Store, id primitive.ObjectID, set map[string]interface{}) (*store.UpdateResult, error) {
	if err := CheckStatusUpdate(set); err != nil {
		return nil, err
	}
	return UpdateRequest(ctx, st, id, set)
}

func DeleteRequest(ctx context.Context, st store.Store, id primitive.ObjectID) (*store.DeleteResult, error) {
	return st.DeleteOne(ctx, store.DonationRequests, byID(id))
}
