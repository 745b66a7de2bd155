package sharing

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Link kinds, used as the URL host.
const (
	KindMealPlan     = "meal-plan"
	KindShoppingList = "shopping-list"
	KindMeal         = "meal"
)

var (
	ErrInvalidURL     = errors.New("invalid share URL")
	ErrUnknownKind    = errors.New("unknown share kind")
	ErrInvalidPayload = errors.New("invalid share payload")
)

// Codec encodes domain payloads into deep links of the form
//
//	<scheme>://<kind>?data=<base64-JSON>
//
// and decodes them back. Decoding is lenient about categories (unknown
// values fall back elsewhere) but strict about structure.
type Codec struct {
	scheme string
}

func NewCodec(scheme string) *Codec {
	return &Codec{scheme: scheme}
}

// Scheme возвращает URL-схему кодека
func (c *Codec) Scheme() string {
	return c.scheme
}

// DecodedPayload is the result of Decode: exactly one of the payload
// fields is set, matching Kind.
type DecodedPayload struct {
	Kind         string
	MealPlan     *MealPlanPayload
	ShoppingList *ShoppingListPayload
	Meal         *MealPayload
}

func (c *Codec) EncodeMealPlanURL(payload MealPlanPayload) (string, error) {
	if payload.Meals == nil {
		payload.Meals = []SharedMeal{}
	}
	if payload.DateRange == nil {
		payload.DateRange = []float64{}
	}
	return c.encode(KindMealPlan, payload)
}

func (c *Codec) EncodeShoppingListURL(payload ShoppingListPayload) (string, error) {
	if payload.Items == nil {
		payload.Items = []SharedShoppingItem{}
	}
	return c.encode(KindShoppingList, payload)
}

func (c *Codec) EncodeMealURL(payload MealPayload) (string, error) {
	if payload.Ingredients == nil {
		payload.Ingredients = []string{}
	}
	return c.encode(KindMeal, payload)
}

func (c *Codec) encode(kind string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	data := base64.StdEncoding.EncodeToString(raw)
	u := url.URL{
		Scheme:   c.scheme,
		Host:     kind,
		RawQuery: url.Values{"data": {data}}.Encode(),
	}
	return u.String(), nil
}

// Decode parses a share URL and unmarshals its payload. No storage
// writes happen here; callers confirm before applying.
func (c *Codec) Decode(rawURL string) (*DecodedPayload, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if u.Scheme != c.scheme {
		return nil, fmt.Errorf("%w: unexpected scheme %q", ErrInvalidURL, u.Scheme)
	}

	kind := u.Host
	switch kind {
	case KindMealPlan, KindShoppingList, KindMeal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	data := u.Query().Get("data")
	if data == "" {
		return nil, fmt.Errorf("%w: missing data parameter", ErrInvalidURL)
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %s", ErrInvalidPayload, err)
	}

	decoded := &DecodedPayload{Kind: kind}
	switch kind {
	case KindMealPlan:
		var payload MealPlanPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
		}
		decoded.MealPlan = &payload
	case KindShoppingList:
		var payload ShoppingListPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
		}
		decoded.ShoppingList = &payload
	case KindMeal:
		var payload MealPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
		}
		if payload.Name == "" {
			return nil, fmt.Errorf("%w: meal name is required", ErrInvalidPayload)
		}
		decoded.Meal = &payload
	}

	return decoded, nil
}

// decodeBase64 accepts standard encoding first, then the URL-safe and
// unpadded variants some clients produce.
func decodeBase64(data string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(data); err == nil {
		return raw, nil
	}
	if raw, err := base64.URLEncoding.DecodeString(data); err == nil {
		return raw, nil
	}
	if raw, err := base64.RawStdEncoding.DecodeString(data); err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}
