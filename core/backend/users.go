package backend

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
)

// generatedPasswordLength is the length of passwords generated for users created by an admin
const generatedPasswordLength = 12

type userResponse struct {
	User interface{} `json:"user"`
}

func (b *Backend) handleUsers(router *mux.Router) {
	logger.Default().Debugln("users")
	addRoute(router, "/users", http.MethodPost, b.createUser)
	addRoute(router, "/users", http.MethodGet, b.listUsers)
	addRoute(router, "/users/{username}", http.MethodGet, b.getUser)
	addRoute(router, "/users/{username}", http.MethodPatch, b.updateUser)
	addRoute(router, "/users/{username}", http.MethodDelete, b.deleteUser)
	addRoute(router, "/users/{username}/jobs/{id}", http.MethodPost, b.applyToJob)
	addRoute(router, "/users/{username}/technologies/{techId}", http.MethodPost, b.addUserTechnology)
	addRoute(router, "/users/{username}/technologies/{techId}", http.MethodDelete, b.removeUserTechnology)
}

// createUser creates a user as admin. Unlike register, it may create admins. Without
// password in the body a random one is generated.
func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	var data models.UserNew
	if err := b.decode(r, schema.UserNew, &data); err != nil {
		return err
	}
	if data.Password == "" {
		password, err := access.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return apperr.Internal(err)
		}
		data.Password = password
	}
	user, err := b.users.Register(r.Context(), data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUser, core.OperationCreate, user.Username)
	token, err := b.createToken(user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	users, err := b.users.FindAll(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	if err := access.RequireAdminOrUser(access.AuthorizationFromContext(r.Context()), username); err != nil {
		return err
	}
	user, err := b.users.Get(r.Context(), username)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, userResponse{User: user})
}

// updateUser updates a user. Only admins may change isAdmin.
func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	auth := access.AuthorizationFromContext(r.Context())
	if err := access.RequireAdminOrUser(auth, username); err != nil {
		return err
	}
	var data models.UserUpdate
	if err := b.decode(r, schema.UserUpdate, &data); err != nil {
		return err
	}
	if data.IsAdmin != nil {
		if err := access.RequireAdmin(auth); err != nil {
			return err
		}
	}
	user, err := b.users.Update(r.Context(), username, data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUser, core.OperationUpdate, username)
	return writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	if err := access.RequireAdminOrUser(access.AuthorizationFromContext(r.Context()), username); err != nil {
		return err
	}
	if err := b.users.Remove(r.Context(), username); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUser, core.OperationDelete, username)
	return writeJSON(w, http.StatusOK, map[string]string{"deleted": username})
}

func (b *Backend) applyToJob(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	if err := access.RequireAdminOrUser(access.AuthorizationFromContext(r.Context()), username); err != nil {
		return err
	}
	jobID, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	if err := b.users.Apply(r.Context(), username, jobID); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceApplication, core.OperationCreate, username+"/"+strconv.Itoa(jobID))
	return writeJSON(w, http.StatusOK, map[string]int{"applied": jobID})
}

func (b *Backend) addUserTechnology(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	if err := access.RequireAdminOrUser(access.AuthorizationFromContext(r.Context()), username); err != nil {
		return err
	}
	techID, err := pathInt(r, "techId", "technology")
	if err != nil {
		return err
	}
	if err := b.users.AddTechnology(r.Context(), username, techID); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUserTechnology, core.OperationCreate, username+"/"+strconv.Itoa(techID))
	return writeJSON(w, http.StatusOK, map[string]int{"applied": techID})
}

func (b *Backend) removeUserTechnology(w http.ResponseWriter, r *http.Request) error {
	username := mux.Vars(r)["username"]
	if err := access.RequireAdminOrUser(access.AuthorizationFromContext(r.Context()), username); err != nil {
		return err
	}
	techID, err := pathInt(r, "techId", "technology")
	if err != nil {
		return err
	}
	if err := b.users.RemoveTechnology(r.Context(), username, techID); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUserTechnology, core.OperationDelete, username+"/"+strconv.Itoa(techID))
	return writeJSON(w, http.StatusOK, map[string]int{"removed": techID})
}
