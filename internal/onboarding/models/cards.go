package models

import (
	"encoding/json"
	"fmt"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// CardKind discriminates the DynamicCard union.
type CardKind string

const (
	CardKindDevice  CardKind = "device"
	CardKindService CardKind = "service"
)

// DeviceSpec holds the fields only a hardware card has.
type DeviceSpec struct {
	Model    string `json:"model"`
	SimCards int    `json:"simCards"`
}

// ServiceSpec holds the fields only a service card has.
type ServiceSpec struct {
	BillingPeriod string `json:"billingPeriod"`
}

// DynamicCard is one device or service line. Exactly one of Device and
// Service is set, matching Kind; use Match instead of probing the pointers.
type DynamicCard struct {
	ID         id.CardID    `json:"id"`
	Kind       CardKind     `json:"type"`
	Category   string       `json:"category"`
	Name       string       `json:"name"`
	Count      int          `json:"count"`
	MonthlyFee *float64     `json:"monthlyFee"`
	Device     *DeviceSpec  `json:"device,omitempty"`
	Service    *ServiceSpec `json:"service,omitempty"`
}

// NewDeviceCard builds a device card.
func NewDeviceCard(category, name string, count int, spec DeviceSpec) DynamicCard {
	return DynamicCard{ID: id.NewCardID(), Kind: CardKindDevice, Category: category, Name: name, Count: count, Device: &spec}
}

// NewServiceCard builds a service card.
func NewServiceCard(category, name string, count int, spec ServiceSpec) DynamicCard {
	return DynamicCard{ID: id.NewCardID(), Kind: CardKindService, Category: category, Name: name, Count: count, Service: &spec}
}

// CardMatcher receives the variant payload of a card.
type CardMatcher[T any] struct {
	Device  func(DynamicCard, DeviceSpec) T
	Service func(DynamicCard, ServiceSpec) T
	Invalid func(DynamicCard) T
}

// Match dispatches on the card's discriminant. A card whose payload does not
// agree with its Kind goes to Invalid.
func Match[T any](c DynamicCard, m CardMatcher[T]) T {
	switch {
	case c.Kind == CardKindDevice && c.Device != nil && c.Service == nil:
		return m.Device(c, *c.Device)
	case c.Kind == CardKindService && c.Service != nil && c.Device == nil:
		return m.Service(c, *c.Service)
	default:
		return m.Invalid(c)
	}
}

// SimCount is the number of SIM cards a card contributes (zero for services).
func (c DynamicCard) SimCount() int {
	return Match(c, CardMatcher[int]{
		Device:  func(_ DynamicCard, d DeviceSpec) int { return d.SimCards * c.Count },
		Service: func(DynamicCard, ServiceSpec) int { return 0 },
		Invalid: func(DynamicCard) int { return 0 },
	})
}

// UnmarshalJSON rejects unknown discriminants so a loosely-typed bag never
// enters the aggregate.
func (c *DynamicCard) UnmarshalJSON(b []byte) error {
	type raw DynamicCard
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	switch r.Kind {
	case CardKindDevice:
		if r.Device == nil {
			r.Device = &DeviceSpec{}
		}
		r.Service = nil
	case CardKindService:
		if r.Service == nil {
			r.Service = &ServiceSpec{}
		}
		r.Device = nil
	default:
		return fmt.Errorf("unknown card type %q", r.Kind)
	}
	*c = DynamicCard(r)
	return nil
}
