package utils

import (
	"fmt"
	"log"
	"time"

	"bluelearn/config"

	"github.com/go-resty/resty/v2"
)

type registryLookupResponse struct {
	Registered bool   `json:"registered"`
	LegalName  string `json:"legal_name"`
	Status     string `json:"status"`
}

// VerifyBusinessRegistration checks a partner's registration number against
// the external business registry. A lookup failure is reported as an error
// so callers can verify partners manually instead.
func VerifyBusinessRegistration(registrationNo, country string) (bool, error) {
	if config.AppConfig.RegistryApiKey == "" {
		return false, fmt.Errorf("registry API key not configured")
	}

	client := resty.New().
		SetBaseURL(config.AppConfig.RegistryApiURL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bearer "+config.AppConfig.RegistryApiKey)

	var result registryLookupResponse
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"registration_number": registrationNo,
			"country":             country,
		}).
		SetResult(&result).
		Get("businesses/lookup")

	if err != nil {
		log.Printf("Registry lookup failed for %s: %v", registrationNo, err)
		return false, err
	}
	if resp.IsError() {
		log.Printf("Registry lookup for %s returned %d", registrationNo, resp.StatusCode())
		return false, fmt.Errorf("registry lookup: unexpected status %d", resp.StatusCode())
	}

	return result.Registered && result.Status == "active", nil
}
