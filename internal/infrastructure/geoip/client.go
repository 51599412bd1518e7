// Package geoip enriquecimiento best-effort de ubicación por IP. Un timeout o
// cualquier error devuelve ok=false; jamás se propaga al que llama.
package geoip

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/pkg/config"
	"github.com/credipronto/originacion-api/pkg/logger"
)

var _ ports.Geolocator = (*Client)(nil)

// Client consulta un servicio externo de geolocalización (ej. ip-api.com).
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New construye el cliente. Con baseURL vacío todas las consultas devuelven ok=false.
func New(cfg config.GeoIPConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 800 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Locate resuelve "Ciudad, Región, País" para la IP dada.
func (c *Client) Locate(ip string) (string, bool) {
	if c.baseURL == "" || ip == "" {
		return "", false
	}
	resp, err := c.http.Get(fmt.Sprintf("%s/%s", c.baseURL, ip))
	if err != nil {
		c.log.Debug().Err(err).Str("ip", ip).Msg("geoip no disponible")
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var body struct {
		Status     string `json:"status"`
		City       string `json:"city"`
		RegionName string `json:"regionName"`
		Country    string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false
	}
	if body.Status != "" && body.Status != "success" {
		return "", false
	}

	var parts []string
	for _, p := range []string{body.City, body.RegionName, body.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

// NopGeolocator implementación nula (tests, entornos sin servicio externo).
type NopGeolocator struct{}

// Locate siempre devuelve ok=false.
func (NopGeolocator) Locate(string) (string, bool) { return "", false }
