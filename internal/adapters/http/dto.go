package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FlexID is an integer id that also accepts its decimal string form.
// Browser clients keep ids from storage as strings and send them back unchanged.
type FlexID int64

// UnmarshalJSON accepts 42, "42" and "" (zero).
func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.New("id must be an integer")
		}
		*f = FlexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("id must be an integer")
	}
	*f = FlexID(n)
	return nil
}

type loginRequest struct {
	User     string `json:"user" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type loginUser struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
	Rol     string `json:"rol"`
	ClubID  int64  `json:"club_id,omitempty"`
	Nombre  string `json:"nombre"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
	User      loginUser `json:"user"`
}

type createClaseRequest struct {
	Nombre string `json:"nombre" validate:"required,max=80"`
	ClubID FlexID `json:"club_id"`
}

type createConquistadorRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
	Clase  string `json:"clase" validate:"required,max=80"`
	ClubID FlexID `json:"club_id"`
}

type renameConquistadorRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

type setProgresoRequest struct {
	ConquistadorID FlexID `json:"conquistador_id" validate:"required,gt=0"`
	RequisitoID    FlexID `json:"requisito_id" validate:"required,gt=0"`
	Cumplido       *bool  `json:"cumplido" validate:"required"`
}

type setProgresoResponse struct {
	ConquistadorID int64 `json:"conquistador_id"`
	RequisitoID    int64 `json:"requisito_id"`
	Cumplido       bool  `json:"cumplido"`
	AvisoEnviado   bool  `json:"aviso_enviado"`
}

// validationError is the 400 body for requests that fail struct validation.
type validationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

// decodeRequest strictly decodes and validates a JSON body, writing the 400 response itself.
// It reports whether the handler should continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := strictDecode(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return false
	}
	if err := validate().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			internalError(w, err)
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, validationError{Error: "datos inválidos", Fields: fields})
		return false
	}
	return true
}
