package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

const DefaultCheckoutBaseURL = "https://www.crossmint.com/sdk/2024-03-05/hosted-checkout"

var ErrMissingASIN = errors.New("product asin is required")

// CheckoutLinks builds hosted checkout URLs for Amazon products.
type CheckoutLinks struct {
	BaseURL string
	APIKey  string
}

func NewCheckoutLinks(apiKey string) CheckoutLinks {
	return CheckoutLinks{BaseURL: DefaultCheckoutBaseURL, APIKey: apiKey}
}

type lineItem struct {
	ProductLocator string `json:"productLocator"`
}

type checkoutPayment struct {
	Crypto struct {
		Enabled         bool   `json:"enabled"`
		DefaultChain    string `json:"defaultChain"`
		DefaultCurrency string `json:"defaultCurrency"`
	} `json:"crypto"`
	Fiat struct {
		Enabled        bool `json:"enabled"`
		AllowedMethods struct {
			ApplePay  bool `json:"applePay"`
			GooglePay bool `json:"googlePay"`
		} `json:"allowedMethods"`
	} `json:"fiat"`
	DefaultMethod string `json:"defaultMethod"`
}

// URL returns a fiat-only checkout link for the product identified by asin.
func (c CheckoutLinks) URL(asin string) (string, error) {
	if asin == "" {
		return "", ErrMissingASIN
	}

	items, err := json.Marshal([]lineItem{{ProductLocator: "amazon:" + asin}})
	if err != nil {
		return "", fmt.Errorf("failed to encode line items: %w", err)
	}

	var payment checkoutPayment
	payment.Crypto.DefaultChain = "solana"
	payment.Crypto.DefaultCurrency = "usdc"
	payment.Fiat.Enabled = true
	payment.DefaultMethod = "fiat"
	paymentJSON, err := json.Marshal(payment)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment options: %w", err)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout base url: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", c.APIKey)
	q.Set("lineItems", string(items))
	q.Set("payment", string(paymentJSON))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
