package model

import "time"

type PostPeer interface {
	GetByID(id string) (*Post, error)
	GetPosts() ([]*Post, error)
	NewPost(uid string) *Post
	SaveNew(p *Post) error
	Save(p *Post) error
	Remove(p *Post) error
}

// Post is a single entry on the wall. User references the author by id.
type Post struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Img       string    `json:"img,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID   string `json:"_id"`
	User string `json:"user"`
	Text string `json:"text"`
}

// LikedBy reports whether uid is in the post's likes.
func (p *Post) LikedBy(uid string) bool {
	for _, id := range p.Likes {
		if id == uid {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so callers may mutate likes and comments freely.
func (p Post) Clone() Post {
	p.Likes = cloneIDs(p.Likes)
	if p.Comments != nil {
		p.Comments = append(make([]Comment, 0, len(p.Comments)), p.Comments...)
	}
	return p
}

// ByCreatedAtDESC represents a sort interface for sorting Posts descendingby CreatedAt
type ByCreatedAtDESC []*Post

func (o ByCreatedAtDESC) Len() int           { return len(o) }
func (o ByCreatedAtDESC) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o ByCreatedAtDESC) Less(i, j int) bool { return o[i].CreatedAt.After(o[j].CreatedAt) }
