package handler

import "net/http"

type emptyResponse int

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(e))
	return nil
}

// Empty responds 204 No Content. Deletes and acknowledged state changes that
// carry no body use it.
func Empty() Response {
	return emptyResponse(http.StatusNoContent)
}
