package api

import "github.com/blang/posty/model"

// SignupRequest creates a new account.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	FullName string `json:"fullName" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate changes the current user's profile. Empty fields are left
// unchanged. NewPassword requires CurrentPassword.
type ProfileUpdate struct {
	FullName        string `json:"fullName,omitempty" validate:"omitempty,max=64"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Username        string `json:"username,omitempty" validate:"omitempty,min=3,max=32,alphanum"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Link            string `json:"link,omitempty" validate:"omitempty,url"`
	ProfileImg      string `json:"profileImg,omitempty"`
	CoverImg        string `json:"coverImg,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// NewPost is the payload of a post creation.
type NewPost struct {
	Text string `json:"text" validate:"required_without=Img,max=280"`
	Img  string `json:"img,omitempty"`
}

// NewComment is the payload of a comment on a post.
type NewComment struct {
	Text string `json:"text" validate:"required,max=280"`
}

// UserResponse wraps the user returned by signup and login.
type UserResponse struct {
	User *model.User `json:"user"`
}

// MessageResponse is returned by operations without a domain payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatePostResponse carries the stored post.
type CreatePostResponse struct {
	NewPost *model.Post `json:"newPost"`
}

// DeletePostResponse names the removed post.
type DeletePostResponse struct {
	Message string `json:"message"`
	PostID  string `json:"postId"`
}
