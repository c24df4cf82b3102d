package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/model"
)

// Numeric DTE codes defined by the SII.
var codigosDTE = map[string]int{
	model.DocumentoFactura:     33,
	model.DocumentoBoleta:      39,
	model.DocumentoNotaCredito: 61,
	model.DocumentoNotaDebito:  56,
}

// CodigoDTE maps a document type name to its SII numeric code.
func CodigoDTE(tipoDocumento string) (int, bool) {
	c, ok := codigosDTE[tipoDocumento]
	return c, ok
}

// DTEPayload is sent by the worker pool to the SII gateway, which handles
// signing and the SOAP exchange with the SII.
type DTEPayload struct {
	TipoDTE     int     `json:"tipo_dte"`
	Folio       int     `json:"folio"`
	RUTEmisor   string  `json:"rut_emisor"`
	RUTReceptor string  `json:"rut_receptor,omitempty"`
	MontoNeto   float64 `json:"monto_neto"`
	MontoIVA    float64 `json:"monto_iva"`
	MontoTotal  float64 `json:"monto_total"`
	DocumentoID string  `json:"documento_id"`
}

// DTEResponse is returned by the gateway after submitting the DTE.
type DTEResponse struct {
	TrackID int64  `json:"track_id"`
	Estado  string `json:"estado"` // "aceptado" | "rechazado"
	Glosa   string `json:"glosa,omitempty"`
}

// SIIClient delegates DTE submission to the SII gateway over HTTP, keeping
// SII outages away from the request path.
type SIIClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewSIIClient(gatewayURL string) *SIIClient {
	return &SIIClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EnviarDTE submits one document and returns the SII track id.
func (c *SIIClient) EnviarDTE(ctx context.Context, payload DTEPayload) (*DTEResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sii: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/dte", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sii: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sii: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sii: gateway returned %d", resp.StatusCode)
	}

	var result DTEResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sii: decode response: %w", err)
	}
	return &result, nil
}
