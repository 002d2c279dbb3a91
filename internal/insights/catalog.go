package insights

type segmentEntry struct {
	id       string
	name     string
	size     int
	tags     []string
	channels []string
}

type assetEntry struct {
	id       string
	name     string
	kind     string
	tags     []string
	channels []string
}

type contentEntry struct {
	id      string
	title   string
	format  string
	channel string
	tags    []string
}

var segmentCatalog = []segmentEntry{
	{"seg-young-pros", "Young Professionals", 48000, []string{"career", "technology", "travel", "launch", "premium"}, []string{"Social", "Email"}},
	{"seg-parents", "Parents", 62000, []string{"family", "school", "holiday", "gift", "value", "kids"}, []string{"Email", "Web"}},
	{"seg-students", "Students", 35000, []string{"school", "student", "discount", "back", "campus"}, []string{"Social"}},
	{"seg-smb", "Small Business Owners", 21000, []string{"business", "productivity", "growth", "b2b", "finance"}, []string{"Email", "Web"}},
	{"seg-eco", "Eco-Conscious Shoppers", 27000, []string{"sustainability", "sustainable", "eco", "green", "organic"}, []string{"Social", "Web"}},
	{"seg-loyal", "Existing Customers", 90000, []string{"loyalty", "rewards", "retention", "renewal", "existing", "vip"}, []string{"Email"}},
	{"seg-bargain", "Bargain Hunters", 54000, []string{"sale", "discount", "clearance", "deal", "offer"}, []string{"Email", "Social", "Search"}},
	{"seg-enterprise", "Enterprise Decision Makers", 9000, []string{"enterprise", "b2b", "roi", "security", "platform"}, []string{"Events", "Email"}},
}

var assetCatalog = []assetEntry{
	{"asset-hero-banner", "Seasonal hero banner", "image", []string{"sale", "holiday", "summer", "launch"}, []string{"Web", "Display"}},
	{"asset-product-shots", "Product photography set", "image", []string{"product", "launch", "premium", "new"}, []string{"Web", "Social", "Email"}},
	{"asset-email-template", "Responsive email template", "template", []string{"newsletter", "announcement", "offer"}, []string{"Email"}},
	{"asset-short-video", "15s vertical video", "video", []string{"launch", "story", "brand", "awareness"}, []string{"Social"}},
	{"asset-testimonial", "Customer testimonial clips", "video", []string{"trust", "loyalty", "review", "customer"}, []string{"Social", "Web"}},
	{"asset-infographic", "Data infographic", "image", []string{"research", "insight", "report", "data"}, []string{"Social", "Web"}},
	{"asset-logo-pack", "Logo and brand mark pack", "brand", []string{"brand", "awareness", "identity"}, []string{"Web", "Display", "Events"}},
	{"asset-coupon", "Coupon code graphics", "image", []string{"discount", "sale", "deal", "offer", "clearance"}, []string{"Email", "Social"}},
	{"asset-event-kit", "Event booth kit", "print", []string{"event", "conference", "community"}, []string{"Events"}},
	{"asset-landing-page", "Landing page layout", "template", []string{"conversion", "signup", "leads", "launch"}, []string{"Web", "Search"}},
}

var contentCatalog = []contentEntry{
	{"content-launch-post", "Product launch announcement", "blog post", "Web", []string{"launch", "new", "product", "announcement"}},
	{"content-how-to", "How-to guide", "article", "Web", []string{"guide", "education", "tips", "howto"}},
	{"content-newsletter", "Monthly newsletter feature", "newsletter", "Email", []string{"newsletter", "update", "loyalty", "community"}},
	{"content-promo-email", "Limited-time offer email", "email", "Email", []string{"sale", "discount", "offer", "deal", "urgency"}},
	{"content-social-carousel", "Social carousel", "carousel", "Social", []string{"awareness", "story", "benefits", "brand"}},
	{"content-case-study", "Customer case study", "case study", "Web", []string{"b2b", "roi", "business", "enterprise", "customer"}},
	{"content-video-script", "Short video script", "video script", "Social", []string{"video", "launch", "story", "awareness"}},
	{"content-webinar", "Expert webinar", "webinar", "Events", []string{"education", "enterprise", "research", "insight"}},
	{"content-sustainability", "Sustainability story", "article", "Web", []string{"sustainability", "sustainable", "eco", "green", "impact"}},
	{"content-search-ads", "Search ad copy", "ad copy", "Search", []string{"conversion", "signup", "leads", "sale"}},
}
