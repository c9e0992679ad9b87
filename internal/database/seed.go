package database

import (
	"log/slog"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
)

// Chicago neighborhood blocks with their initial need scores.
var seedBlocks = []models.Block{
	{Name: "Loop", Slug: "loop", Lat: 41.8781, Lng: -87.6298, NeedScore: 45},
	{Name: "River North", Slug: "river-north", Lat: 41.8906, Lng: -87.6336, NeedScore: 32},
	{Name: "Lincoln Park", Slug: "lincoln-park", Lat: 41.9217, Lng: -87.6489, NeedScore: 28},
	{Name: "Wicker Park", Slug: "wicker-park", Lat: 41.9096, Lng: -87.6773, NeedScore: 38},
	{Name: "Logan Square", Slug: "logan-square", Lat: 41.9289, Lng: -87.7054, NeedScore: 52},
	{Name: "Bucktown", Slug: "bucktown", Lat: 41.9196, Lng: -87.6810, NeedScore: 35},
	{Name: "Pilsen", Slug: "pilsen", Lat: 41.8564, Lng: -87.6598, NeedScore: 68},
	{Name: "Hyde Park", Slug: "hyde-park", Lat: 41.7943, Lng: -87.5907, NeedScore: 41},
	{Name: "Wrigleyville", Slug: "wrigleyville", Lat: 41.9484, Lng: -87.6553, NeedScore: 29},
	{Name: "Gold Coast", Slug: "gold-coast", Lat: 41.9029, Lng: -87.6278, NeedScore: 22},
	{Name: "South Loop", Slug: "south-loop", Lat: 41.8686, Lng: -87.6270, NeedScore: 48},
	{Name: "West Loop", Slug: "west-loop", Lat: 41.8825, Lng: -87.6470, NeedScore: 36},
	{Name: "Bronzeville", Slug: "bronzeville", Lat: 41.8184, Lng: -87.6159, NeedScore: 71},
	{Name: "Uptown", Slug: "uptown", Lat: 41.9658, Lng: -87.6564, NeedScore: 55},
	{Name: "Andersonville", Slug: "andersonville", Lat: 41.9797, Lng: -87.6686, NeedScore: 31},
	{Name: "Old Town", Slug: "old-town", Lat: 41.9120, Lng: -87.6348, NeedScore: 26},
	{Name: "Streeterville", Slug: "streeterville", Lat: 41.8920, Lng: -87.6198, NeedScore: 24},
	{Name: "Chinatown", Slug: "chinatown", Lat: 41.8528, Lng: -87.6325, NeedScore: 58},
}

var seedEvents = []models.CivicEvent{
	{
		Title:       "Logan Square Alley Refresh",
		Description: "Neighbors are sweeping, repainting, and replanting along the Milwaukee Ave corridor.",
		StartsAt:    "Sat, Nov 16 - 10:00 AM",
		Location:    "2600 N Milwaukee Ave",
		Category:    "clean_up",
		Neighbors:   42,
	},
	{
		Title:       "West Loop Food Distribution",
		Description: "Packing pantry staples and fresh produce for senior residents along Madison Street.",
		StartsAt:    "Tue, Nov 19 - 6:30 PM",
		Location:    "Merit School of Music, 38 S Peoria",
		Category:    "food",
		Neighbors:   35,
	},
	{
		Title:       "Shelter Animals Field Day",
		Description: "Socialize, walk, and photograph adoptable pets from City Paws Rescue.",
		StartsAt:    "Sun, Nov 24 - 12:00 PM",
		Location:    "Harrison Park, Pilsen",
		Category:    "animals",
		Neighbors:   31,
	},
	{
		Title:       "Bronzeville Bulk Trash Blitz",
		Description: "Help sort recyclables and flag large-item pickups on King Drive.",
		StartsAt:    "Sat, Dec 14 - 9:00 AM",
		Location:    "43rd & King Drive",
		Category:    "recycling",
		Neighbors:   28,
	},
}

// Seed inserts blocks and events on first boot. Existing rows are left alone
// so recomputed need scores survive restarts.
func Seed() error {
	var blockCount int64
	if err := DB.Model(&models.Block{}).Count(&blockCount).Error; err != nil {
		return err
	}
	if blockCount == 0 {
		if err := DB.Create(&seedBlocks).Error; err != nil {
			return err
		}
		slog.Info("seeded blocks", "count", len(seedBlocks))
	}

	var eventCount int64
	if err := DB.Model(&models.CivicEvent{}).Count(&eventCount).Error; err != nil {
		return err
	}
	if eventCount == 0 {
		if err := DB.Create(&seedEvents).Error; err != nil {
			return err
		}
		slog.Info("seeded civic events", "count", len(seedEvents))
	}

	return nil
}
