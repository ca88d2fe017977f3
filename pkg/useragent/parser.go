package useragent

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Parser classifies User-Agent strings for redirect logging.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo is the classified result of a User-Agent string.
type DeviceInfo struct {
	DeviceType string // mobile, tablet, desktop, bot, unknown
	Browser    string
	OS         string
}

// New creates a parser backed by uap-go's compiled-in regex definitions.
func New(log *zap.Logger) *Parser {
	return &Parser{
		parser: uaparser.NewFromSaved(),
		log:    log,
	}
}

// Classify parses a User-Agent string into device type, browser and OS.
func (p *Parser) Classify(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", Browser: "unknown", OS: "unknown"}
	}

	client := p.parser.Parse(userAgent)

	info := DeviceInfo{
		Browser:    orUnknown(client.UserAgent.Family),
		OS:         orUnknown(client.Os.Family),
		DeviceType: deviceType(client, userAgent),
	}

	p.log.Debug("classified user agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS))

	return info
}

func deviceType(client *uaparser.Client, userAgent string) string {
	if isBot(client.UserAgent.Family, userAgent) {
		return "bot"
	}

	device := client.Device.Family
	if containsAny(device, "iPad", "Tablet", "Kindle") {
		return "tablet"
	}
	if containsAny(device, "iPhone", "Android", "Phone", "Mobile") {
		return "mobile"
	}

	switch client.Os.Family {
	case "iOS", "Android", "Windows Phone", "BlackBerry OS":
		return "mobile"
	case "Windows", "Mac OS X", "Linux", "Ubuntu", "Chrome OS":
		return "desktop"
	}

	return "unknown"
}

func isBot(uaFamily, userAgent string) bool {
	indicators := []string{
		"bot", "Bot", "crawler", "spider", "Slurp",
		"facebookexternalhit", "WhatsApp", "Telegram",
	}
	for _, ind := range indicators {
		if strings.Contains(uaFamily, ind) || strings.Contains(userAgent, ind) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func orUnknown(s string) string {
	if s == "" || s == "Other" {
		return "unknown"
	}
	return s
}
