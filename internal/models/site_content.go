package models

type HeroContent struct {
	BackgroundImage string `json:"backgroundImage"`
	Title           string `json:"title"`
	TitleFa         string `json:"titleFa"`
	Subtitle        string `json:"subtitle"`
	SubtitleFa      string `json:"subtitleFa"`
	CTAText         string `json:"ctaText"`
	CTATextFa       string `json:"ctaTextFa"`
	CTALink         string `json:"ctaLink"`
}

type CraftsmanshipContent struct {
	Image         string `json:"image"`
	Title         string `json:"title"`
	TitleFa       string `json:"titleFa"`
	Description   string `json:"description"`
	DescriptionFa string `json:"descriptionFa"`
}

type LookbookImage struct {
	ID  int64  `json:"id"`
	URL string `json:"url" binding:"required"`
	Alt string `json:"alt"`
}

type SocialLinks struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	YouTube   string `json:"youtube"`
	Pinterest string `json:"pinterest"`
}

type FooterContent struct {
	NewsletterTitle         string      `json:"newsletterTitle"`
	NewsletterTitleFa       string      `json:"newsletterTitleFa"`
	NewsletterDescription   string      `json:"newsletterDescription"`
	NewsletterDescriptionFa string      `json:"newsletterDescriptionFa"`
	SocialLinks             SocialLinks `json:"socialLinks"`
	ContactEmail            string      `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone            string      `json:"contactPhone"`
	Address                 string      `json:"address"`
}

type MenuItem struct {
	ID       int64  `json:"id"`
	Label    string `json:"label" binding:"required"`
	LabelFa  string `json:"labelFa"`
	Href     string `json:"href"`
	IsActive bool   `json:"isActive"`
}

type GeneralContent struct {
	SiteName       string `json:"siteName"`
	SiteNameFa     string `json:"siteNameFa"`
	Logo           string `json:"logo"`
	Favicon        string `json:"favicon"`
	PrimaryColor   string `json:"primaryColor" binding:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" binding:"omitempty,hexcolor"`
}

// SiteContent is the storefront copy edited from the back office. It is a singleton.
type SiteContent struct {
	Hero          HeroContent          `json:"hero"`
	Craftsmanship CraftsmanshipContent `json:"craftsmanship"`
	Lookbook      []LookbookImage      `json:"lookbook"`
	Footer        FooterContent        `json:"footer"`
	MenuItems     []MenuItem           `json:"menuItems"`
	General       GeneralContent       `json:"general"`

	Version int64 `json:"-"`
}

// SiteContentPatch replaces whole sections; nil sections are kept.
type SiteContentPatch struct {
	Hero          *HeroContent          `json:"hero"`
	Craftsmanship *CraftsmanshipContent `json:"craftsmanship"`
	Lookbook      *[]LookbookImage      `json:"lookbook" binding:"omitempty,dive"`
	Footer        *FooterContent        `json:"footer"`
	MenuItems     *[]MenuItem           `json:"menuItems" binding:"omitempty,dive"`
	General       *GeneralContent       `json:"general"`
}

// Apply reports the names of the sections it replaced.
func (patch SiteContentPatch) Apply(s *SiteContent) []string {
	var changed []string
	if patch.Hero != nil {
		s.Hero = *patch.Hero
		changed = append(changed, "hero")
	}
	if patch.Craftsmanship != nil {
		s.Craftsmanship = *patch.Craftsmanship
		changed = append(changed, "craftsmanship")
	}
	if patch.Lookbook != nil {
		s.Lookbook = *patch.Lookbook
		changed = append(changed, "lookbook")
	}
	if patch.Footer != nil {
		s.Footer = *patch.Footer
		changed = append(changed, "footer")
	}
	if patch.MenuItems != nil {
		s.MenuItems = *patch.MenuItems
		changed = append(changed, "menu")
	}
	if patch.General != nil {
		s.General = *patch.General
		changed = append(changed, "general")
	}
	return changed
}

// DefaultSiteContent is served until the content is first saved.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Hero: HeroContent{
			BackgroundImage: "https://images.unsplash.com/photo-1509631179647-0177331693ae?auto=format&fit=crop&w=2000&q=80",
			Title:           "NOIR",
			TitleFa:         "نوآر",
			Subtitle:        "Avant-garde fashion for the bold and unconventional",
			SubtitleFa:      "مد آوانگارد برای افراد جسور و غیرمتعارف",
			CTAText:         "EXPLORE COLLECTION",
			CTATextFa:       "مشاهده کالکشن",
			CTALink:         "#collection",
		},
		Craftsmanship: CraftsmanshipContent{
			Image:       "https://images.unsplash.com/photo-1558171813-4c088753af8f?auto=format&fit=crop&w=1000&q=80",
			Title:       "CRAFTSMANSHIP",
			TitleFa:     "هنر صنعتگری",
			Description: "Each piece is made in our ateliers with traditional techniques and a modern approach to construction.",
		},
		Lookbook: []LookbookImage{
			{ID: 1, URL: "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?auto=format&fit=crop&w=600&q=80", Alt: "Lookbook 1"},
			{ID: 2, URL: "https://images.unsplash.com/photo-1529139574466-a303027c1d8b?auto=format&fit=crop&w=600&q=80", Alt: "Lookbook 2"},
			{ID: 3, URL: "https://images.unsplash.com/photo-1496747611176-843222e1e57c?auto=format&fit=crop&w=600&q=80", Alt: "Lookbook 3"},
			{ID: 4, URL: "https://images.unsplash.com/photo-1509631179647-0177331693ae?auto=format&fit=crop&w=600&q=80", Alt: "Lookbook 4"},
		},
		Footer: FooterContent{
			NewsletterTitle:       "NEWSLETTER",
			NewsletterTitleFa:     "خبرنامه",
			NewsletterDescription: "Subscribe to receive updates, access to exclusive deals, and more.",
			SocialLinks: SocialLinks{
				Instagram: "https://instagram.com",
				Twitter:   "https://twitter.com",
				YouTube:   "https://youtube.com",
				Pinterest: "https://pinterest.com",
			},
			ContactEmail: "contact@noir.com",
			ContactPhone: "+1 (555) 010-2030",
			Address:      "120 Mercer Street, New York, NY 10012",
		},
		MenuItems: []MenuItem{
			{ID: 1, Label: "NEW ARRIVALS", LabelFa: "جدیدترین‌ها", Href: "#new", IsActive: true},
			{ID: 2, Label: "WOMEN", LabelFa: "زنانه", Href: "#women", IsActive: true},
			{ID: 3, Label: "MEN", LabelFa: "مردانه", Href: "#men", IsActive: true},
			{ID: 4, Label: "COLLECTIONS", LabelFa: "کالکشن‌ها", Href: "#collections", IsActive: true},
		},
		General: GeneralContent{
			SiteName:       "NOIR",
			SiteNameFa:     "نوآر",
			PrimaryColor:   "#000000",
			SecondaryColor: "#ffffff",
		},
	}
}
