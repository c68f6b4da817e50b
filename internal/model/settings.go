package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SettingsStore defines persistence operations for the site settings singleton.
type SettingsStore interface {
	// Get returns the stored settings or ErrNotFound when none exist yet.
	Get(ctx context.Context) (Settings, error)
	// Create stores settings unless an instance already exists and returns the stored instance.
	Create(ctx context.Context, settings Settings) (Settings, error)
	// Save replaces the stored settings.
	Save(ctx context.Context, settings Settings) (Settings, error)
}

// FieldKind determines how a settings field is decoded and coerced.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldColor
	FieldBool
	FieldNumber
	FieldDate
	FieldJSON
	FieldImage
)

func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldColor:
		return "color"
	case FieldBool:
		return "bool"
	case FieldNumber:
		return "number"
	case FieldDate:
		return "date"
	case FieldJSON:
		return "json"
	case FieldImage:
		return "image"
	default:
		return "unknown"
	}
}

// FieldSpec describes a single settings field.
type FieldSpec struct {
	Kind    FieldKind
	Default any
}

// SocialLinks holds the storefront's social profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
}

// Testimonial is a customer quote shown on the home page.
type Testimonial struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
	Image   string  `json:"image"`
}

// DefaultTestimonialRating is used when a testimonial carries no rating.
const DefaultTestimonialRating = 5

// UnmarshalJSON decodes a testimonial. Rating may be a number or a numeric
// string and defaults to DefaultTestimonialRating when absent or empty.
func (t *Testimonial) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Role    string          `json:"role"`
		Content string          `json:"content"`
		Rating  json.RawMessage `json:"rating"`
		Image   string          `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rating, err := decodeRating(raw.Rating)
	if err != nil {
		return err
	}

	*t = Testimonial{
		Name:    raw.Name,
		Role:    raw.Role,
		Content: raw.Content,
		Rating:  rating,
		Image:   raw.Image,
	}
	return nil
}

func decodeRating(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultTestimonialRating, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid rating %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTestimonialRating, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q", s)
	}
	return n, nil
}

// FAQ is a question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const (
	defaultQualityFeatures = `[{"title":"Strong & Durable","subtitle":"Made with the best wood and materials that last for years.","icon":"Shield"},{"title":"Free Delivery","subtitle":"We deliver to your doorstep with careful handling.","icon":"Truck"},{"title":"Trusted by 5000+ Families","subtitle":"Our customers love us. We treat every order with care.","icon":"HeartHandshake"},{"title":"Easy Returns","subtitle":"Not satisfied? Return within 7 days, no questions asked.","icon":"CheckCircle"}]`
	defaultNavLinks        = `[{"name":"HOME","path":"/"},{"name":"PRODUCTS","path":"/products"},{"name":"ABOUT US","path":"/about"},{"name":"CONTACT","path":"/contact"}]`
)

func text(def string) FieldSpec  { return FieldSpec{Kind: FieldText, Default: def} }
func color(def string) FieldSpec { return FieldSpec{Kind: FieldColor, Default: def} }
func flag(def bool) FieldSpec    { return FieldSpec{Kind: FieldBool, Default: def} }

var settingsFields = map[string]FieldSpec{
	// Branding
	"logo":              {Kind: FieldImage},
	"favicon":           {Kind: FieldImage},
	"brandName":         text("FURNITURE."),
	"adminPanelTitle":   text(""),
	"tagline":           text("Premium furniture for modern living spaces."),
	"productCardHeight": text("260px"),
	"primaryColor":      color("#121212"),
	"accentColor":       color("#D4AF37"),

	// Hero and home page
	"heroImage":               {Kind: FieldImage},
	"heroTitle":               text("Beautiful Furniture for Your Home"),
	"heroSubtitle":            text("Find the perfect furniture to make your home comfortable and stylish."),
	"heroLabel":               text("QUALITY FURNITURE"),
	"heroBtnText":             text("See All Furniture"),
	"heroBtnText2":            text("About Us"),
	"featuredSectionTitle":    text("Our Best Picks"),
	"featuredSectionSubtitle": text("TOP SELLING"),
	"qualitySectionTitle":     text("Why Choose Us"),
	"qualitySectionSubtitle":  text("OUR PROMISE"),
	"categorySectionTitle":    text("Shop by Type"),
	"categorySectionSubtitle": text("CATEGORIES"),
	"qualityFeatures":         text(defaultQualityFeatures),
	"whatsappBtnText":         text("WHATSAPP"),
	"emptyProductsMessage":    text("No products found. Try a different search or category."),
	"emptyProductsBtnText":    text("SHOW ALL"),
	"testimonialSectionTitle": text("Customer Love"),
	"testimonialSectionLabel": text("REVIEWS"),
	"productsPageTitle":       text("Our Furniture"),
	"productsPageLabel":       text("ALL PRODUCTS"),
	"productDeliveryNote":     text("Careful delivery to your door"),
	"productWarrantyNote":     text("Built to last generations"),

	"productsSearchPlaceholder": text("Search furniture..."),

	// Section toggles
	"showFeaturedSection":     flag(true),
	"showQualitySection":      flag(true),
	"showCategoriesSection":   flag(true),
	"showTestimonialsSection": flag(true),

	// Announcement bar
	"showAnnouncement":      flag(false),
	"announcementText":      text("FREE DELIVERY ON ALL ORDERS ABOVE ₹50,000"),
	"announcementBgColor":   color("#D4AF37"),
	"announcementTextColor": color("#ffffff"),
	"announcementCountdown": {Kind: FieldDate},

	// Promo popup
	"showPromoPopup":     flag(false),
	"popupShowEveryTime": flag(false),
	"promoPopupTitle":    text("Special Offer!"),
	"promoPopupText":     text("Get 10% off on your first order. Use code: AURA10"),
	"promoPopupImage":    {Kind: FieldImage},
	"promoPopupBtnText":  text("Shop Now"),
	"promoPopupBtnLink":  text("/products"),
	"promoPopup":         {Kind: FieldJSON},

	// Contact and footer
	"whatsappNumber": text(""),
	"contactPhone":   text(""),
	"email":          text("hello@aura.com"),
	"address":        text("123 Furniture Market, New Delhi, India"),
	"mapLink":        text(""),
	"socialLinks":    {Kind: FieldJSON},
	"footerText":     text("© 2026 Furniture. All Rights Reserved."),
	"footerTagline":  text("Premium furniture for modern living spaces."),

	// About page
	"aboutText":          text("Premium furniture for modern living spaces. We bring you handpicked, high-quality furniture that makes your home beautiful and comfortable."),
	"aboutHeroTitle":     text("Our Story."),
	"aboutSection1Title": text("We Pick the Best for You"),
	"aboutSection1Text":  text("We carefully select every piece of furniture we sell. Only items that meet our quality standards make it to our store."),
	"aboutSection2Title": text("Built to Last"),
	"aboutSection2Text":  text("We use strong, durable materials like seasoned teak wood and high-quality foam."),
	"aboutStat1Number":   text("15+"),
	"aboutStat1Label":    text("YEARS"),
	"aboutStat2Number":   text("5000+"),
	"aboutStat2Label":    text("HAPPY HOMES"),
	"aboutQuote":         text("A beautiful home brings peace to the mind and joy to the heart."),

	// Contact page
	"contactHeroTitle":     text("Contact Us"),
	"contactHeroSubtitle":  text("Have a question about our furniture? Want to place an order? We're happy to help."),
	"contactTimingsMonSat": text("10 AM – 8 PM"),
	"contactTimingsSun":    text("11 AM – 5 PM"),
	"contactHelpTitle":     text("Need Help Choosing?"),
	"contactHelpText":      text("Not sure which furniture is right for your home? Message us on WhatsApp for free consultation."),

	// Policies
	"privacyPolicy":   text(""),
	"returnPolicy":    text(""),
	"termsConditions": text(""),

	// Social proof
	"testimonials": {Kind: FieldJSON},
	"faqs":         {Kind: FieldJSON},

	// Inventory and currency
	"lowStockThreshold": {Kind: FieldNumber, Default: float64(5)},
	"currencySymbol":    text("₹"),

	// Maintenance and advanced
	"maintenanceMode":    flag(false),
	"maintenanceMessage": text("We are currently updating our showroom. Please check back soon!"),
	"customCSS":          text(""),
	"customJS":           text(""),

	// SEO and navigation
	"siteTitle":           text("Premium Luxury Furniture"),
	"siteMetaDescription": text("Exquisite furniture for modern living. Shop our collection of sofas, beds, and more."),
	"siteKeywords":        text("furniture, luxury, sofa, bed, home decor, india"),
	"navLinks":            text(defaultNavLinks),
}

var imageSlots = []string{"logo", "heroImage", "promoPopupImage", "favicon"}

// LookupSettingsField returns the kind and default of a known settings field.
func LookupSettingsField(name string) (FieldSpec, bool) {
	spec, ok := settingsFields[name]
	return spec, ok
}

// IsImageSlot reports whether name is one of the settings image slots.
func IsImageSlot(name string) bool {
	spec, ok := settingsFields[name]
	return ok && spec.Kind == FieldImage
}

// ImageSlots returns the settings image slot names in display order.
func ImageSlots() []string {
	return append([]string(nil), imageSlots...)
}

// SettingsFieldNames returns every non-image field name, sorted.
func SettingsFieldNames() []string {
	names := make([]string, 0, len(settingsFields))
	for name, spec := range settingsFields {
		if spec.Kind == FieldImage {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultValue returns a fresh copy of the field's default value.
func (s FieldSpec) DefaultValue(name string) any {
	switch s.Kind {
	case FieldJSON:
		return defaultJSONValue(name)
	case FieldDate:
		return (*time.Time)(nil)
	default:
		return s.Default
	}
}

func defaultJSONValue(name string) any {
	switch name {
	case "socialLinks":
		return SocialLinks{}
	case "testimonials":
		return []Testimonial{}
	case "faqs":
		return []FAQ{}
	default:
		return map[string]any{}
	}
}

// DecodeJSON parses a json-kind field value into its typed representation.
func DecodeJSON(name string, data []byte) (any, error) {
	switch name {
	case "socialLinks":
		var v SocialLinks
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "testimonials":
		var v []Testimonial
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v == nil {
			v = []Testimonial{}
		}
		return v, nil
	case "faqs":
		var v []FAQ
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v == nil {
			v = []FAQ{}
		}
		return v, nil
	default:
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v == nil {
			v = map[string]any{}
		}
		return v, nil
	}
}

// decodeStored converts a stored raw value into the field's typed value.
func (s FieldSpec) decodeStored(name string, raw json.RawMessage) (any, error) {
	if string(raw) == "null" {
		return s.DefaultValue(name), nil
	}

	switch s.Kind {
	case FieldText, FieldColor:
		var v string
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldBool:
		var v bool
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldNumber:
		var v float64
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldDate:
		var v time.Time
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case FieldJSON:
		return DecodeJSON(name, raw)
	default:
		return nil, fmt.Errorf("field %q of kind %s is not a value field", name, s.Kind)
	}
}

// Settings is the site configuration singleton.
type Settings struct {
	Values    map[string]any
	Images    map[string]Image
	UpdatedAt time.Time
}

// DefaultSettings returns settings with every field at its default.
func DefaultSettings() Settings {
	s := Settings{
		Values: make(map[string]any, len(settingsFields)),
		Images: make(map[string]Image, len(imageSlots)),
	}
	for _, name := range SettingsFieldNames() {
		s.Values[name] = settingsFields[name].DefaultValue(name)
	}
	for _, slot := range imageSlots {
		s.Images[slot] = Image{}
	}
	return s
}

// DecodeSettingsValues builds field values from their stored JSON object.
// Missing fields take their defaults, unknown fields are dropped and
// fields whose stored value no longer matches their kind fall back to the default.
func DecodeSettingsValues(data []byte) (map[string]any, error) {
	stored := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, fmt.Errorf("failed to decode settings values: %w", err)
		}
	}

	values := make(map[string]any, len(settingsFields))
	for name, spec := range settingsFields {
		if spec.Kind == FieldImage {
			continue
		}
		raw, ok := stored[name]
		if !ok {
			values[name] = spec.DefaultValue(name)
			continue
		}
		v, err := spec.decodeStored(name, raw)
		if err != nil {
			v = spec.DefaultValue(name)
		}
		values[name] = v
	}
	return values, nil
}

// DecodeSettingsImages builds image slots from their stored JSON object.
func DecodeSettingsImages(data []byte) (map[string]Image, error) {
	stored := map[string]Image{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, fmt.Errorf("failed to decode settings images: %w", err)
		}
	}

	images := make(map[string]Image, len(imageSlots))
	for _, slot := range imageSlots {
		images[slot] = stored[slot]
	}
	return images, nil
}

// Text returns a text or color field value.
func (s Settings) Text(name string) string {
	v, _ := s.Values[name].(string)
	return v
}

// Bool returns a bool field value.
func (s Settings) Bool(name string) bool {
	v, _ := s.Values[name].(bool)
	return v
}

// Number returns a number field value.
func (s Settings) Number(name string) float64 {
	v, _ := s.Values[name].(float64)
	return v
}

// Date returns a date field value, nil when unset.
func (s Settings) Date(name string) *time.Time {
	v, _ := s.Values[name].(*time.Time)
	return v
}

// Image returns the content of an image slot.
func (s Settings) Image(slot string) Image {
	return s.Images[slot]
}

// Clone returns a copy whose maps can be modified independently.
func (s Settings) Clone() Settings {
	out := Settings{
		Values:    make(map[string]any, len(s.Values)),
		Images:    make(map[string]Image, len(s.Images)),
		UpdatedAt: s.UpdatedAt,
	}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	for k, v := range s.Images {
		out.Images[k] = v
	}
	return out
}

// MarshalJSON renders settings as one flat object, the way clients consume them.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Values)+len(s.Images)+1)
	for k, v := range s.Values {
		out[k] = v
	}
	for _, slot := range imageSlots {
		out[slot] = s.Images[slot]
	}
	if !s.UpdatedAt.IsZero() {
		out["updatedAt"] = s.UpdatedAt
	}
	return json.Marshal(out)
}
