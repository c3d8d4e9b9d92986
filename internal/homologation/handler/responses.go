package handler

import (
	"fmt"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
)

type IntakeResponse struct {
	Message string               `json:"message"`
	Result  *models.IntakeResult `json:"result"`
}

func newIntakeResponse(result *models.IntakeResult) IntakeResponse {
	msg := "Registro inicial completado"
	if result.ExistingProcess && result.Document == nil {
		msg = "El estudiante ya tiene un proceso de homologación pendiente"
	}
	return IntakeResponse{Message: msg, Result: result}
}

type SubmitResponse struct {
	Message string               `json:"message"`
	Result  *models.SubmitResult `json:"result"`
}

func newSubmitResponse(result *models.SubmitResult) SubmitResponse {
	msg := "Homologación actualizada sin documentos nuevos"
	if len(result.ProcessedFiles) > 0 {
		msg = fmt.Sprintf("Homologación actualizada. Documentos procesados: %s", strings.Join(result.ProcessedFiles, ", "))
	}
	return SubmitResponse{Message: msg, Result: result}
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
