package models

type StoreSettings struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Currency string  `json:"currency"`
	Timezone string  `json:"timezone"`
	Logo     string  `json:"logo,omitempty"`
	Address  Address `json:"address"`
}

type ShippingSettings struct {
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	StandardShipping      float64 `json:"standardShipping"`
	ExpressShipping       float64 `json:"expressShipping"`
	InternationalShipping float64 `json:"internationalShipping"`
}

type NotificationSettings struct {
	Orders             bool `json:"orders"`
	Stock              bool `json:"stock"`
	Customers          bool `json:"customers"`
	Marketing          bool `json:"marketing"`
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
}

// Settings is the global singleton.
type Settings struct {
	Store         StoreSettings        `json:"store"`
	Shipping      ShippingSettings     `json:"shipping"`
	Notifications NotificationSettings `json:"notifications"`

	Version int64 `json:"-"`
}

type StoreSettingsPatch struct {
	Name     *string  `json:"name"`
	Email    *string  `json:"email" binding:"omitempty,email"`
	Phone    *string  `json:"phone"`
	Currency *string  `json:"currency" binding:"omitempty,len=3"`
	Timezone *string  `json:"timezone"`
	Logo     *string  `json:"logo"`
	Address  *Address `json:"address"`
}

type ShippingSettingsPatch struct {
	FreeShippingThreshold *float64 `json:"freeShippingThreshold" binding:"omitempty,gte=0"`
	StandardShipping      *float64 `json:"standardShipping" binding:"omitempty,gte=0"`
	ExpressShipping       *float64 `json:"expressShipping" binding:"omitempty,gte=0"`
	InternationalShipping *float64 `json:"internationalShipping" binding:"omitempty,gte=0"`
}

type NotificationSettingsPatch struct {
	Orders             *bool `json:"orders"`
	Stock              *bool `json:"stock"`
	Customers          *bool `json:"customers"`
	Marketing          *bool `json:"marketing"`
	EmailNotifications *bool `json:"emailNotifications"`
	PushNotifications  *bool `json:"pushNotifications"`
}

// SettingsPatch merges section by section.
type SettingsPatch struct {
	Store         *StoreSettingsPatch        `json:"store"`
	Shipping      *ShippingSettingsPatch     `json:"shipping"`
	Notifications *NotificationSettingsPatch `json:"notifications"`
}

func (patch SettingsPatch) Apply(s *Settings) {
	if p := patch.Store; p != nil {
		setString(&s.Store.Name, p.Name)
		setString(&s.Store.Email, p.Email)
		setString(&s.Store.Phone, p.Phone)
		setString(&s.Store.Currency, p.Currency)
		setString(&s.Store.Timezone, p.Timezone)
		setString(&s.Store.Logo, p.Logo)
		if p.Address != nil {
			s.Store.Address = *p.Address
		}
	}
	if p := patch.Shipping; p != nil {
		setFloat(&s.Shipping.FreeShippingThreshold, p.FreeShippingThreshold)
		setFloat(&s.Shipping.StandardShipping, p.StandardShipping)
		setFloat(&s.Shipping.ExpressShipping, p.ExpressShipping)
		setFloat(&s.Shipping.InternationalShipping, p.InternationalShipping)
	}
	if p := patch.Notifications; p != nil {
		setBool(&s.Notifications.Orders, p.Orders)
		setBool(&s.Notifications.Stock, p.Stock)
		setBool(&s.Notifications.Customers, p.Customers)
		setBool(&s.Notifications.Marketing, p.Marketing)
		setBool(&s.Notifications.EmailNotifications, p.EmailNotifications)
		setBool(&s.Notifications.PushNotifications, p.PushNotifications)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// DefaultSettings is used until settings are first saved.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			Name:     "NOIR",
			Email:    "contact@noir.com",
			Phone:    "+1 (555) 010-2030",
			Currency: "USD",
			Timezone: "America/New_York",
			Address: Address{
				ID:         1,
				Type:       AddressBilling,
				Street:     "120 Mercer Street",
				City:       "New York",
				State:      "NY",
				Country:    "US",
				PostalCode: "10012",
				IsDefault:  true,
			},
		},
		Shipping: ShippingSettings{
			FreeShippingThreshold: 500,
			StandardShipping:      15,
			ExpressShipping:       35,
			InternationalShipping: 60,
		},
		Notifications: NotificationSettings{
			Orders:             true,
			Stock:              true,
			Customers:          true,
			Marketing:          false,
			EmailNotifications: true,
			PushNotifications:  false,
		},
	}
}
