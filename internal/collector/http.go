package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"CreditExposure/internal/model"

	"github.com/go-resty/resty/v2"
)

// HTTPSource downloads the loan book from a REST endpoint. The body is read as CSV or XLSX
// when the URL path ends in that extension, as a JSON array of loans otherwise.
type HTTPSource struct {
	URL    string
	Sheet  string
	Client *resty.Client
}

// NewHTTPSource creates a source with optional bearer token and proxy.
func NewHTTPSource(rawURL, sheet, apiKey, proxyURL string) *HTTPSource {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json, text/csv, */*")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &HTTPSource{URL: rawURL, Sheet: sheet, Client: client}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

// jsonLoan is the expected JSON shape of one loan.
type jsonLoan struct {
	ProjectID      string  `json:"project_id"`
	LTV            float64 `json:"ltv"`
	MarketValue    float64 `json:"market_value"`
	LoanNominal    float64 `json:"loan_nominal"`
	SeniorLoan     float64 `json:"senior_loan"`
	SecurityAmount float64 `json:"security_amount"`
}

func (s *HTTPSource) Load() ([]model.Loan, error) {
	resp, err := s.Client.R().Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch loans: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		body := resp.String()
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, fmt.Errorf("fetch loans: status %d, body: %s", resp.StatusCode(), body)
	}

	switch remoteFormat(s.URL) {
	case ".csv":
		return ReadCSV(bytes.NewReader(resp.Body()))
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(resp.Body()), s.Sheet)
	}

	var raw []jsonLoan
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	loans := make([]model.Loan, len(raw))
	for i, jl := range raw {
		if jl.ProjectID == "" {
			return nil, fmt.Errorf("loan %d: empty project_id", i)
		}
		loans[i] = model.Loan{
			ProjectID:      jl.ProjectID,
			LTV:            jl.LTV,
			MarketValue:    jl.MarketValue,
			LoanNominal:    jl.LoanNominal,
			SeniorLoan:     jl.SeniorLoan,
			SecurityAmount: jl.SecurityAmount,
		}
	}
	return loans, nil
}

func remoteFormat(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

// IsRemote reports whether path is an http(s) URL.
func IsRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
