package services

import (
	"context"

	"bdcserver/model"
	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddBlog stores a new blog. Every blog starts pending regardless of the body.
func AddBlog(ctx context.Context, st store.Store, body map[string]interface{}) (*store.InsertResult, error) {
	if err := model.CheckFieldNames(body); err != nil {
		return nil, err
	}
	delete(body, "_id")
	body["blogStatus"] = model.BlogPending

	var blog model.Blog
	if err := model.Decode(body, &blog); err != nil {
		return nil, err
	}
	doc, err := model.Encode(blog)
	if err != nil {
		return nil, err
	}
	return st.InsertOne(ctx, store.Blogs, doc)
}

func ListBlogs(ctx context.Context, st store.Store) ([]store.Document, error) {
	return st.Find(ctx, store.Blogs, query.Query{})
}

func GetBlog(ctx context.Context, st store.Store, id primitive.ObjectID) (store.Document, error) {
	return st.FindOne(ctx, store.Blogs, byID(id))
}

func UpdateBlog(ctx context.Context, st store.Store, id primitive.ObjectID, set map[string]interface{}) (*store.UpdateResult, error) {
	if err := model.BlogSchema.CheckUpdate(set); err != nil {
		return nil, err
	}
	return st.UpdateOne(ctx, store.Blogs, byID(id), set)
}

func ListPublishedBlogs(ctx context.Context, st store.Store) ([]store.Document, error) {
	return st.Find(ctx, store.Blogs, query.Query{
		Filter: query.Filter{query.Eq("blogStatus", model.BlogPublished)},
	})
}

// SetBlogStatus moves a blog between pending and published.
func SetBlogStatus(ctx context.Context, st store.Store, id primitive.ObjectID, status string) (*store.UpdateResult, error) {
	return UpdateBlog(ctx, st, id, map[string]interface{}{"blogStatus": status})
}

// SearchPublishedBlogs matches published blogs whose title contains title.
// An empty title lists every published blog.
func SearchPublishedBlogs(ctx context.Context, st store.Store, title string) ([]store.Document, error) {
	f := query.And(
		query.Eq("blogStatus", model.BlogPublished),
		query.Contains("title", title),
	)
	return st.Find(ctx, store.Blogs, query.Query{Filter: f})
}

func DeleteBlog(ctx context.Context, st store.Store, id primitive.ObjectID) (*store.DeleteResult, error) {
	return st.DeleteOne(ctx, store.Blogs, byID(id))
}
