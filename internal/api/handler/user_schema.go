package handler

import "time"

// --- Request / Response types ---

type registerUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// replaceUserRequest is the PUT body: every field is required.
type replaceUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// patchUserRequest is the PATCH body: absent fields are left untouched.
type patchUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=64"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
}

type searchUsersQuery struct {
	Username string `query:"username"`
	Email    string `query:"email"`
}

// userResponse is owned by the transport layer so the JSON contract does not
// follow internal changes.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
