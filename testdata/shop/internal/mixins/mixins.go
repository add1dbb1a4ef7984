// Package mixins provides handler methods shared by the shop viewsets.
package mixins

import "net/http"

// ListMixin serves collection listings.
type ListMixin struct{}

// ListPage
//
// Args:
// page:int,page number, starting at 1
// size:int,page size
// Return:
// count:int,total number of items
// results:[]object,items on this page
// Example:
//
//	{
//	  "count": 1,
//	  "results": [{"id": 1}]
//	}
func (ListMixin) List(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
