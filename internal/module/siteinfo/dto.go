package siteinfo

// SiteInfoRequest carries the text settings of an update. Nil fields keep
// their stored value.
type SiteInfoRequest struct {
	SiteName     *string `json:"site_name" form:"site_name" binding:"omitempty,max=255"`
	Tagline      *string `json:"tagline" form:"tagline" binding:"omitempty,max=255"`
	Description  *string `json:"description" form:"description" binding:"omitempty,max=1000"`
	ContactEmail *string `json:"contact_email" form:"contact_email" binding:"omitempty,max=255"`
	FooterText   *string `json:"footer_text" form:"footer_text" binding:"omitempty,max=1000"`
}
