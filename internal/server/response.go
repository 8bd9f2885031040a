package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"sealchat/internal/apperror"
)

type errorBody struct {
	Success bool          `json:"success"`
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the AppError in err's chain. Internal causes are
// logged, never sent.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	ae := apperror.From(err)
	if ae.Code == apperror.CodeInternal {
		log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, ae.Code.HTTPStatus(), errorBody{Success: false, Code: ae.Code, Message: ae.Message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if asMaxBytes(err, &tooBig) {
			return apperror.ErrMessageTooLarge
		}
		return apperror.Wrap(apperror.CodeInvalidArgument, apperror.ErrBadRequestBody.Error(), err)
	}
	return nil
}
