package model

import "time"

// UserPeer defines interactions with the user data.
type UserPeer interface {
	GetByID(id string) (*User, error)
	GetByUsername(username string) (*User, error)
	GetUsers() ([]*User, error)
	UpdateLastLogin(id string) error
	NewUser() *User
	SaveNew(user *User) error
	Save(user *User) error
}

// User represents an user in the model.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Link         string    `json:"link,omitempty"`
	ProfileImg   string    `json:"profileImg,omitempty"`
	CoverImg     string    `json:"coverImg,omitempty"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	LikedPosts   []string  `json:"likedPosts"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"-"`
}

// Follows reports whether the user follows uid.
func (u *User) Follows(uid string) bool {
	return contains(u.Following, uid)
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	u.Followers = cloneIDs(u.Followers)
	u.Following = cloneIDs(u.Following)
	u.LikedPosts = cloneIDs(u.LikedPosts)
	return u
}

// AddID appends id unless it is already present.
func AddID(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// RemoveID returns a new slice holding ids without any occurrence of id.
// The input is left untouched.
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	return append(make([]string, 0, len(ids)), ids...)
}
