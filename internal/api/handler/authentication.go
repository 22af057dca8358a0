package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/internal/usecases/authenticating"
	"github.com/avilchez/commerce-insights-api/pkg/apiErrors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(req.Email, req.Password)
		if err != nil {
			if authenticating.IsCredentialsError(err) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Credenciais inválidas", nil)
				return
			}
			logrus.WithError(err).Error("Erro inesperado no login")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao autenticar", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"token": token}); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de login")
		}
	}
}
