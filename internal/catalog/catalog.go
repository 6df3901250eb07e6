// Package catalog holds the fixed avatar and banner options users can pick
// from. Membership is pure and role-scoped: admins choose from the full
// set, everyone else from the attendee category. No network involved.
package catalog

import "github.com/eventify/eventify-desk/internal/domain"

var avatars = []domain.CatalogOption{
	{ID: "avatar-1", Name: "Professional Leader", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAdmin},
	{ID: "avatar-2", Name: "Executive", ImageURL: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAdmin},
	{ID: "avatar-3", Name: "Business Leader", ImageURL: "https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAdmin},
	{ID: "avatar-4", Name: "Creative Professional", ImageURL: "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-5", Name: "Student", ImageURL: "https://images.unsplash.com/photo-1539571696357-5a69c17a67c6?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-6", Name: "Young Professional", ImageURL: "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-7", Name: "Entrepreneur", ImageURL: "https://images.unsplash.com/photo-1507591064344-4c6ce005b128?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-8", Name: "Developer", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-9", Name: "Tech Enthusiast", ImageURL: "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-10", Name: "Artist", ImageURL: "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-11", Name: "Designer", ImageURL: "https://images.unsplash.com/photo-1488426862026-3ee34a7d66df?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-12", Name: "Musician", ImageURL: "https://images.unsplash.com/photo-1492562080023-ab3db95bfbce?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-13", Name: "Athlete", ImageURL: "https://images.unsplash.com/photo-1548142813-c348350df52b?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-14", Name: "Writer", ImageURL: "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-15", Name: "Photographer", ImageURL: "https://images.unsplash.com/photo-1507591064344-4c6ce005b128?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
	{ID: "avatar-16", Name: "Social Butterfly", ImageURL: "https://images.unsplash.com/photo-1545167622-3a6ac756afa4?w=150&h=150&fit=crop&crop=face", Category: domain.RoleAttendee},
}

var banners = []domain.CatalogOption{
	{ID: "banner-attendee-1", Name: "Concert Vibes", ImageURL: "https://images.unsplash.com/photo-1516450360452-9312f5e86fc7?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAttendee},
	{ID: "banner-attendee-2", Name: "Social Gathering", ImageURL: "https://images.unsplash.com/photo-1511795409834-ef04bbd61622?auto=format&fit=crop&w=2069&q=80", Category: domain.RoleAttendee},
	{ID: "banner-attendee-3", Name: "Adventure Time", ImageURL: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAttendee},
	{ID: "banner-attendee-4", Name: "Urban Nightlife", ImageURL: "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?auto=format&fit=crop&w=2074&q=80", Category: domain.RoleAttendee},
	{ID: "banner-attendee-5", Name: "Cultural Events", ImageURL: "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAttendee},
	{ID: "banner-attendee-6", Name: "Celebration", ImageURL: "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAttendee},
	{ID: "banner-admin-1", Name: "Leadership Conclave", ImageURL: "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?auto=format&fit=crop&w=2126&q=80", Category: domain.RoleAdmin},
	{ID: "banner-admin-2", Name: "Future Forum", ImageURL: "https://images.unsplash.com/photo-1540575467063-178a50c2df87?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAdmin},
	{ID: "banner-admin-3", Name: "Cultural Caravan", ImageURL: "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAdmin},
	{ID: "banner-admin-4", Name: "Saga Nights", ImageURL: "https://images.unsplash.com/photo-1519671482749-fd09be7ccebf?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAdmin},
	{ID: "banner-admin-5", Name: "Contemporary Chronicles", ImageURL: "https://images.unsplash.com/photo-1511578314322-379afb476865?auto=format&fit=crop&w=2069&q=80", Category: domain.RoleAdmin},
	{ID: "banner-admin-6", Name: "Festival Fiesta", ImageURL: "https://images.unsplash.com/photo-1482575832494-771f74bf6aed?auto=format&fit=crop&w=2070&q=80", Category: domain.RoleAdmin},
}

// EventCategories is the closed list an event can be filed under.
var EventCategories = []string{
	"music", "tech", "sports", "food", "art",
	"business", "education", "health", "networking", "entertainment",
}

// Avatars returns the avatar options selectable by the given role.
func Avatars(role domain.Role) []domain.CatalogOption {
	return filter(avatars, role)
}

// Banners returns the banner options selectable by the given role.
func Banners(role domain.Role) []domain.CatalogOption {
	return filter(banners, role)
}

// AvatarAllowed reports whether the option identified by id may be
// selected by the given role, returning the full option on success.
func AvatarAllowed(role domain.Role, id string) (domain.CatalogOption, bool) {
	return lookup(Avatars(role), id)
}

// BannerAllowed is the banner counterpart of AvatarAllowed.
func BannerAllowed(role domain.Role, id string) (domain.CatalogOption, bool) {
	return lookup(Banners(role), id)
}

func filter(options []domain.CatalogOption, role domain.Role) []domain.CatalogOption {
	if role == domain.RoleAdmin {
		out := make([]domain.CatalogOption, len(options))
		copy(out, options)
		return out
	}
	var out []domain.CatalogOption
	for _, opt := range options {
		if opt.Category == domain.RoleAttendee {
			out = append(out, opt)
		}
	}
	return out
}

func lookup(options []domain.CatalogOption, id string) (domain.CatalogOption, bool) {
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return domain.CatalogOption{}, false
}
