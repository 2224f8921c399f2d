package rest

import (
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (api *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	u, err := api.accounts.Register(r.Context(), service.RegisterRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	sess, err := api.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sess)
}

func (api *API) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := api.accounts.Me(r.Context(), actor(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, u)
}

type changePasswordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

func (api *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.accounts.ChangePassword(r.Context(), actor(r), req.Current, req.New); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// handleForgotPassword answers the same way whether the email is known or
// not.
func (api *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (api *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.accounts.ResetPassword(r.Context(), req.Code, req.Password); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := api.accounts.ListUsers(r.Context(), actor(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, users)
}

type updateUserRequest struct {
	Role      *string `json:"role"`
	Confirmed *bool   `json:"confirmed"`
	Password  *string `json:"password"`
}

func (api *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathID(r, "user_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req updateUserRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	u, err := api.accounts.UpdateUser(r.Context(), actor(r), userID, service.EditUser{
		Role:      req.Role,
		Confirmed: req.Confirmed,
		Password:  req.Password,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, u)
}
