package handler

import (
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterUserInput(req registerUserRequest) ports.RegisterUserInput {
	return ports.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func replaceToModifyUserInput(req replaceUserRequest) ports.ModifyUserInput {
	return ports.ModifyUserInput{
		Username: &req.Username,
		Email:    &req.Email,
		Password: &req.Password,
	}
}

func patchToModifyUserInput(req patchUserRequest) ports.ModifyUserInput {
	return ports.ModifyUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(r *ports.UserResult) userResponse {
	return userResponse{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Role:      string(r.Role),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func toUserResponses(rs []ports.UserResult) []userResponse {
	out := make([]userResponse, len(rs))
	for i := range rs {
		out[i] = toUserResponse(&rs[i])
	}
	return out
}
