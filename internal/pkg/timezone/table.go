package timezone

type reference struct {
	Lat  float64
	Lng  float64
	Zone string
}

// references maps one representative coordinate per zone. Nearest match is
// planar, so results near the antimeridian and poles are approximate.
var references = []reference{
	// South Asia
	{20.5937, 78.9629, "Asia/Kolkata"},
	{23.6850, 90.3563, "Asia/Dhaka"},
	{30.3753, 69.3451, "Asia/Karachi"},
	{7.8731, 80.7718, "Asia/Colombo"},
	{28.3949, 84.1240, "Asia/Kathmandu"},
	{27.5142, 90.4336, "Asia/Thimphu"},
	// Middle East
	{23.4241, 53.8478, "Asia/Dubai"},
	{29.3117, 47.4818, "Asia/Kuwait"},
	{25.3548, 51.1839, "Asia/Qatar"},
	{26.0667, 50.5577, "Asia/Bahrain"},
	{23.8859, 45.0792, "Asia/Riyadh"},
	// Southeast Asia
	{1.3521, 103.8198, "Asia/Singapore"},
	{4.2105, 101.9758, "Asia/Kuala_Lumpur"},
	{15.8700, 100.9925, "Asia/Bangkok"},
	{12.8797, 121.7740, "Asia/Manila"},
	{-0.7893, 113.9213, "Asia/Jakarta"},
	{21.0285, 105.8542, "Asia/Ho_Chi_Minh"},
	{11.5449, 104.8922, "Asia/Phnom_Penh"},
	{17.9757, 102.6331, "Asia/Vientiane"},
	{16.8409, 96.1735, "Asia/Yangon"},
	// East Asia
	{35.6762, 139.6503, "Asia/Tokyo"},
	{39.9042, 116.4074, "Asia/Shanghai"},
	{37.5665, 126.9780, "Asia/Seoul"},
	{25.0330, 121.5654, "Asia/Taipei"},
	{22.3193, 114.1694, "Asia/Hong_Kong"},
	{22.1987, 113.5439, "Asia/Macau"},
	// Europe
	{51.5074, -0.1278, "Europe/London"},
	{48.8566, 2.3522, "Europe/Paris"},
	{52.5200, 13.4050, "Europe/Berlin"},
	{41.9028, 12.4964, "Europe/Rome"},
	{40.4168, -3.7038, "Europe/Madrid"},
	{52.3676, 4.9041, "Europe/Amsterdam"},
	{55.7558, 37.6176, "Europe/Moscow"},
	// North America
	{40.7128, -74.0060, "America/New_York"},
	{34.0522, -118.2437, "America/Los_Angeles"},
	{41.8781, -87.6298, "America/Chicago"},
	{39.7392, -104.9903, "America/Denver"},
	{43.6532, -79.3832, "America/Toronto"},
	{49.2827, -123.1207, "America/Vancouver"},
	{19.4326, -99.1332, "America/Mexico_City"},
	// Oceania
	{-33.8688, 151.2093, "Australia/Sydney"},
	{-31.9505, 115.8605, "Australia/Perth"},
	{-37.8136, 144.9631, "Australia/Melbourne"},
	{-41.2865, 174.7762, "Pacific/Auckland"},
	// Africa
	{30.0444, 31.2357, "Africa/Cairo"},
	{-26.2041, 28.0473, "Africa/Johannesburg"},
	{6.5244, 3.3792, "Africa/Lagos"},
	{-1.2921, 36.8219, "Africa/Nairobi"},
	// South America
	{-23.5505, -46.6333, "America/Sao_Paulo"},
	{-34.6118, -58.3960, "America/Argentina/Buenos_Aires"},
	{-12.0464, -77.0428, "America/Lima"},
	{4.7110, -74.0721, "America/Bogota"},
}

var displayNames = map[string]string{
	"Asia/Kolkata":        "India Standard Time (IST)",
	"Asia/Dhaka":          "Bangladesh Standard Time (BST)",
	"Asia/Karachi":        "Pakistan Standard Time (PKT)",
	"Asia/Colombo":        "Sri Lanka Standard Time (SLST)",
	"Asia/Kathmandu":      "Nepal Time (NPT)",
	"Asia/Dubai":          "Gulf Standard Time (GST)",
	"Asia/Singapore":      "Singapore Standard Time (SGT)",
	"Asia/Bangkok":        "Indochina Time (ICT)",
	"Asia/Manila":         "Philippines Standard Time (PST)",
	"Asia/Jakarta":        "Western Indonesia Time (WIB)",
	"Asia/Tokyo":          "Japan Standard Time (JST)",
	"Asia/Shanghai":       "China Standard Time (CST)",
	"Asia/Seoul":          "Korea Standard Time (KST)",
	"Europe/London":       "Greenwich Mean Time (GMT)",
	"Europe/Paris":        "Central European Time (CET)",
	"Europe/Berlin":       "Central European Time (CET)",
	"America/New_York":    "Eastern Standard Time (EST)",
	"America/Los_Angeles": "Pacific Standard Time (PST)",
	"America/Chicago":     "Central Standard Time (CST)",
	"Australia/Sydney":    "Australian Eastern Standard Time (AEST)",
}
