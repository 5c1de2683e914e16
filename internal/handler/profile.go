package handler

import (
	"net/http"

	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var patch service.ProfilePatch
	err := decodeJSON(w, r, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status, err := h.profileService.OnboardingStatus(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type onboardingRequest struct {
	Profile service.ProfilePatch `json:"profile"`
	Goal    service.GoalInput    `json:"goal"`
}

type onboardingResponse struct {
	User *model.User `json:"user"`
	Goal *model.Goal `json:"goal"`
}

func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req onboardingRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, goal, err := h.profileService.CompleteOnboarding(r.Context(), user.ID, req.Profile, req.Goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, onboardingResponse{User: profile, Goal: goal})
}
