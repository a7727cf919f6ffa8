package mondialrelay

import (
	"context"
	"crypto/md5"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lachabroderie/shop-api/internal/domain/models"
)

const soapAction = "http://www.mondialrelay.fr/webservice/WSI4_PointRelais_Recherche"

// Search parameters fixed by the storefront: France only, 20 km radius,
// at most 10 results. Only the postal code varies per request.
const (
	paramPays            = "FR"
	paramDelaiEnvoi      = "0"
	paramRayonRecherche  = "20"
	paramNombreResultats = "10"
)

// Client queries the legacy Mondial Relay WSI4 pickup-point endpoint.
type Client struct {
	log        *slog.Logger
	endpoint   string
	enseigne   string
	privateKey string
	httpClient *http.Client
}

func New(log *slog.Logger, endpoint, enseigne, privateKey string) *Client {
	return &Client{
		log:        log,
		endpoint:   endpoint,
		enseigne:   enseigne,
		privateKey: privateKey,
		httpClient: &http.Client{},
	}
}

// SearchResult carries the surviving pickup points plus the raw-response
// diagnostics the storefront echoes back for debugging.
type SearchResult struct {
	Points         []models.PointRelais
	Stat           string
	ResponseLength int
	Preview        string
}

// ProviderError is a non-success status from the provider, carrying its own
// error text.
type ProviderError struct {
	Stat    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mondial relay: %s (stat %s)", e.Message, e.Stat)
}

// SecurityKey computes the WSI4 authentication digest: every parameter
// value concatenated in the declared order, followed by the private key,
// MD5-hashed and uppercased. MD5 is the checksum the provider contract
// mandates, not a security choice of this codebase. The field order must
// never change or the provider rejects the request.
func SecurityKey(enseigne, codePostal, privateKey string) string {
	values := []string{
		enseigne,        // Enseigne
		paramPays,       // Pays
		"",              // NumPointRelais
		"",              // Ville
		codePostal,      // CP
		"",              // Latitude
		"",              // Longitude
		"",              // Taille
		"",              // Poids
		"",              // Action
		paramDelaiEnvoi, // DelaiEnvoi
		paramRayonRecherche,
		"", // TypeActivite
		"", // NACE
		paramNombreResultats,
	}
	sum := md5.Sum([]byte(strings.Join(values, "") + privateKey))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}

// SearchPoints looks up pickup points around a postal code. Records with an
// empty identifier, name or address line are discarded; an empty result
// after filtering is not an error here, the caller decides what "nothing
// found" means.
func (c *Client) SearchPoints(ctx context.Context, codePostal string) (*SearchResult, error) {
	const op = "mondialrelay.SearchPoints"
	logger := c.log.With(slog.String("op", op), slog.String("codePostal", codePostal))

	envelope := buildEnvelope(c.enseigne, codePostal, SecurityKey(c.enseigne, codePostal, c.privateKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")
	req.Header.Set("SOAPAction", soapAction)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	result, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	logger.Info("pickup points found", slog.Int("count", len(result.Points)))
	return result, nil
}

func buildEnvelope(enseigne, codePostal, securityKey string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <soap:Body>
    <WSI4_PointRelais_Recherche xmlns="http://www.mondialrelay.fr/webservice/">
      <Enseigne>` + enseigne + `</Enseigne>
      <Pays>` + paramPays + `</Pays>
      <NumPointRelais></NumPointRelais>
      <Ville></Ville>
      <CP>` + codePostal + `</CP>
      <Latitude></Latitude>
      <Longitude></Longitude>
      <Taille></Taille>
      <Poids></Poids>
      <Action></Action>
      <DelaiEnvoi>` + paramDelaiEnvoi + `</DelaiEnvoi>
      <RayonRecherche>` + paramRayonRecherche + `</RayonRecherche>
      <TypeActivite></TypeActivite>
      <NACE></NACE>
      <NombreResultats>` + paramNombreResultats + `</NombreResultats>
      <Security>` + securityKey + `</Security>
    </WSI4_PointRelais_Recherche>
  </soap:Body>
</soap:Envelope>`
}

type soapEnvelope struct {
	Body struct {
		Response struct {
			Result searchResult `xml:"WSI4_PointRelais_RechercheResult"`
		} `xml:"WSI4_PointRelais_RechercheResponse"`
	} `xml:"Body"`
}

type searchResult struct {
	Stat    string        `xml:"STAT"`
	Libelle string        `xml:"Libelle"`
	Points  []pointDetail `xml:"PointsRelais>PointRelais_Details"`
}

type pointDetail struct {
	Num       string `xml:"Num"`
	LgAdr1    string `xml:"LgAdr1"`
	LgAdr3    string `xml:"LgAdr3"`
	CP        string `xml:"CP"`
	Ville     string `xml:"Ville"`
	Latitude  string `xml:"Latitude"`
	Longitude string `xml:"Longitude"`
}

// parseResponse decodes the provider's flat XML. STAT "0" is the single
// success code; everything else surfaces the provider's own Libelle text.
func parseResponse(raw []byte) (*SearchResult, error) {
	const op = "mondialrelay.parseResponse"

	var env soapEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s: failed to decode provider response: %w", op, err)
	}

	res := env.Body.Response.Result
	if res.Stat != "0" {
		message := strings.TrimSpace(res.Libelle)
		if message == "" {
			message = "unknown error"
		}
		return nil, &ProviderError{Stat: res.Stat, Message: message}
	}

	points := make([]models.PointRelais, 0, len(res.Points))
	for _, p := range res.Points {
		point := models.PointRelais{
			ID:        strings.TrimSpace(p.Num),
			Nom:       strings.TrimSpace(p.LgAdr1),
			Adresse1:  strings.TrimSpace(p.LgAdr3),
			CP:        strings.TrimSpace(p.CP),
			Ville:     strings.TrimSpace(p.Ville),
			Latitude:  strings.TrimSpace(p.Latitude),
			Longitude: strings.TrimSpace(p.Longitude),
		}
		// the provider pads its lists with hollow records
		if point.ID == "" || point.Nom == "" || point.Adresse1 == "" {
			continue
		}
		points = append(points, point)
	}

	preview := string(raw)
	if len(preview) > 200 {
		preview = preview[:200]
	}

	return &SearchResult{
		Points:         points,
		Stat:           res.Stat,
		ResponseLength: len(raw),
		Preview:        preview,
	}, nil
}
