package services

import (
	"context"

	"bdcserver/store"
)

// Stats is the admin dashboard summary. There is no funding collection, so
// TotalFunding is always zero.
type Stats struct {
	TotalUser    int64 `json:"totalUser"`
	TotalRequest int64 `json:"totalRequest"`
	TotalFunding int64 `json:"totalFunding"`
}

func GetStats(ctx context.Context, st store.Store) (*Stats, error) {
	users, err := st.EstimatedCount(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	requests, err := st.EstimatedCount(ctx, store.DonationRequests)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalUser: users, TotalRequest: requests}, nil
}

func CountAllRequests(ctx context.Context, st store.Store) (int64, error) {
	return st.EstimatedCount(ctx, store.DonationRequests)
}
