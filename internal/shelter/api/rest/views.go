package rest

import (
	"time"

	"github.com/strayhq/shelter/internal/shelter/domain"
	"github.com/strayhq/shelter/internal/shelter/storage"
)

type ownerView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type catView struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Age       int64      `json:"age"`
	OwnerID   *int64     `json:"ownerId"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Owner     *ownerView `json:"owner,omitempty"`
}

type userView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userStatsView struct {
	ActiveCats int64 `json:"activeCats"`
	Posts      int64 `json:"posts"`
}

type userDetailView struct {
	userView
	Cats  []catView      `json:"cats,omitempty"`
	Posts []postView     `json:"posts,omitempty"`
	Stats *userStatsView `json:"stats,omitempty"`
}

type postView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCatView(cat storage.Cat) catView {
	return catView{
		ID:        cat.ID,
		Name:      cat.Name,
		Age:       cat.Age,
		OwnerID:   cat.OwnerID,
		DeletedAt: cat.DeletedAt,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

func toCatWithOwnerView(cat storage.CatWithOwner) catView {
	view := toCatView(cat.Cat)
	if cat.Owner != nil {
		view.Owner = &ownerView{ID: cat.Owner.ID, Name: cat.Owner.Name, Email: cat.Owner.Email}
	}
	return view
}

func toCatViews(cats []storage.Cat) []catView {
	views := make([]catView, 0, len(cats))
	for _, cat := range cats {
		views = append(views, toCatView(cat))
	}
	return views
}

func toUserView(user storage.User) userView {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserDetailView(user domain.UserWithDetails) userDetailView {
	view := userDetailView{userView: toUserView(user.User)}
	if user.Cats != nil {
		view.Cats = toCatViews(user.Cats)
	}
	if user.Posts != nil {
		view.Posts = toPostViews(user.Posts)
	}
	if user.Stats != nil {
		view.Stats = &userStatsView{ActiveCats: user.Stats.ActiveCats, Posts: user.Stats.Posts}
	}
	return view
}

func toPostView(post storage.Post) postView {
	return postView{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func toPostViews(posts []storage.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}
	return views
}
