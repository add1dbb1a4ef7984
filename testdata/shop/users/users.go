// Package users serves the user endpoints of the shop.
package users

import (
	"net/http"

	"example.com/shop/internal/mixins"
)

// UserViewSet groups the user handlers.
type UserViewSet struct {
	mixins.ListMixin
}

// GetUser
//
// Args:
// id:int,user id
// Return:
// name:string,user name
// Example:
// {"name": "bob"}
func (v *UserViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CreateUser
//
// Args:
// name:string,user name
// email:string,contact address
// Return:
// id:int,new user id
// Example:
// {"id": 7}
func (v *UserViewSet) Create(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

// Destroy removes a user. It carries no structured documentation.
func (v *UserViewSet) Destroy(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// SetPassword
//
// Args:
// password:string,new password
// Return:
// status:string,always "ok"
// Example:
// {"status": "ok"}
func (v *UserViewSet) SetPassword(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
