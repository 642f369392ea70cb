package catalog

import (
	"fmt"
	"time"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// Demo returns the built-in catalog served when no seed file is configured.
// Dates are laid out relative to now so date filters always have matches.
func Demo(now time.Time) Seed {
	day := now.UTC().Truncate(24 * time.Hour)
	at := func(days int) time.Time { return day.AddDate(0, 0, days) }

	activities := []domain.Activity{
		{Name: "Sunrise Balloon Ride", Description: "Float over the <b>Valley of the Kings</b> at dawn.", Location: "Luxor", Price: 120, Category: "adventure", Tags: []string{"outdoor", "family"}, Rating: 4.8, BookingOpen: true, Date: at(3)},
		{Name: "Felucca Sunset Sail", Description: "Two hours on the Nile with tea and music.", Location: "Aswan", Price: 25, Category: "relaxation", Tags: []string{"outdoor", "romantic"}, Rating: 4.5, BookingOpen: true, Date: at(5)},
		{Name: "Street Food Crawl", Description: "Koshari, ta'ameya and feteer in old Cairo.", Location: "Cairo", Price: 40, Category: "food", Tags: []string{"walking", "family"}, Rating: 4.6, BookingOpen: true, Date: at(1)},
		{Name: "Desert Stargazing", Description: "Telescope night in the White Desert.", Location: "Farafra", Price: 75, Category: "adventure", Tags: []string{"outdoor", "night"}, Rating: 4.9, BookingOpen: true, Date: at(12)},
		{Name: "Pottery Workshop", Description: "Throw your own clay pot with Fayoum artisans.", Location: "Tunis Village", Price: 30, Category: "culture", Tags: []string{"indoor", "family"}, Rating: 4.2, BookingOpen: true, Date: at(8)},
		{Name: "Red Sea Snorkel Trip", Description: "Reef stops at Giftun island, lunch on board.", Location: "Hurghada", Price: 55, Category: "adventure", Tags: []string{"water", "outdoor"}, Rating: 4.4, BookingOpen: true, Date: at(20)},
		{Name: "Museum Night Tour", Description: "After-hours visit to the Grand Egyptian Museum.", Location: "Giza", Price: 60, Category: "culture", Tags: []string{"indoor", "night"}, Rating: 4.7, BookingOpen: false, Date: at(30)},
		{Name: "Cooking Class", Description: "Learn molokhia and mahshi from a home cook.", Location: "Alexandria", Price: 35, Category: "food", Tags: []string{"indoor"}, Rating: 3.9, BookingOpen: true, Date: at(15)},
		{Name: "Camel Trek", Description: "Half-day trek around the Giza plateau.", Location: "Giza", Price: 45, Category: "adventure", Tags: []string{"outdoor"}, Rating: 3.6, BookingOpen: true, Date: at(2)},
		{Name: "Whirling Dervish Show", Description: "Tanoura performance at Wekalet El Ghouri.", Location: "Cairo", Price: 15, Category: "culture", Tags: []string{"night", "indoor"}, Rating: 4.3, BookingOpen: true, Date: at(6)},
		{Name: "Kayak the Nile", Description: "Paddle past the islands of Aswan.", Location: "Aswan", Price: 50, Category: "adventure", Tags: []string{"water"}, Rating: 4.1, BookingOpen: true, Date: at(9)},
		{Name: "Spa Day", Description: "Hammam and massage in Sharm.", Location: "Sharm El Sheikh", Price: 90, Category: "relaxation", Tags: []string{"indoor"}, Rating: 4.0, BookingOpen: true, Date: at(11)},
	}
	for i := range activities {
		activities[i].ID = fmt.Sprintf("act-%03d", i+1)
		activities[i].CreatedAt = at(-30 + i)
	}

	itineraries := []domain.Itinerary{
		{Title: "Classic Cairo in Three Days", Description: "Pyramids, Khan el-Khalili and the Citadel.", Language: "English", Price: 300, Tags: []string{"history", "city"}, Rating: 4.6, Accessibility: true, AvailableDates: []time.Time{at(4), at(18)}},
		{Title: "Nile Cruise Highlights", Description: "Luxor to Aswan with temple stops.", Language: "English", Price: 850, Tags: []string{"history", "water"}, Rating: 4.9, AvailableDates: []time.Time{at(10), at(40)}},
		{Title: "Sinai Hiking Loop", Description: "Mount Sinai at night and St. Catherine's.", Language: "Arabic", Price: 220, Tags: []string{"hiking", "outdoor"}, Rating: 4.3, AvailableDates: []time.Time{at(7)}},
		{Title: "Alexandria Day Trip", Description: "Library, catacombs and seafood by the corniche.", Language: "French", Price: 90, Tags: []string{"history", "city", "food"}, Rating: 4.0, Accessibility: true, AvailableDates: []time.Time{at(2), at(9), at(16)}},
		{Title: "Oasis Circuit", Description: "Bahariya, Farafra and the Crystal Mountain.", Language: "German", Price: 540, Tags: []string{"outdoor", "desert"}, Rating: 4.7, AvailableDates: []time.Time{at(25)}},
		{Title: "Dive Week", Description: "Five days of Red Sea liveaboard diving.", Language: "English", Price: 1200, Tags: []string{"water", "outdoor"}, Rating: 4.8, AvailableDates: []time.Time{at(35)}},
	}
	for i := range itineraries {
		itineraries[i].ID = fmt.Sprintf("iti-%03d", i+1)
		itineraries[i].CreatedAt = at(-20 + i)
	}

	products := []domain.Product{
		{Name: "Papyrus Print", Description: "Hand-painted Eye of Horus on real papyrus.", Price: 18, Seller: "Nefertari Crafts", Quantity: 40, Rating: 4.4},
		{Name: "Cotton Galabeya", Description: "Egyptian cotton, embroidered collar.", Price: 35, Seller: "Nile Threads", Quantity: 12, Rating: 4.1},
		{Name: "Spice Sampler", Description: "Cumin, dukkah, hibiscus and za'atar.", Price: 12, Seller: "Attarine Market", Quantity: 100, Rating: 4.7, Reviews: []domain.Review{{User: "mona", Rating: 5, Comment: "Smells like the souk."}}},
		{Name: "Alabaster Vase", Description: "Carved in Luxor, about 20cm tall.", Price: 65, Seller: "Nefertari Crafts", Quantity: 5, Rating: 3.8},
		{Name: "Brass Lantern", Description: "Pierced brass, fits a tealight.", Price: 28, Seller: "Khan Lights", Quantity: 0, Rating: 4.5},
		{Name: "Scarab Necklace", Description: "Silver-plated scarab pendant.", Price: 22, Seller: "Khan Lights", Quantity: 30, Rating: 3.5, Archived: true},
		{Name: "Perfume Bottle Set", Description: "Three blown-glass bottles.", Price: 40, Seller: "Attarine Market", Quantity: 8, Rating: 4.0},
	}
	for i := range products {
		products[i].ID = fmt.Sprintf("prd-%03d", i+1)
		products[i].CreatedAt = at(-10 + i)
	}

	return Seed{
		Activities:  activities,
		Itineraries: itineraries,
		Products:    products,
		Currencies: []domain.Currency{
			{ID: "cur-usd", Code: "USD", Symbol: "$"},
			{ID: "cur-eur", Code: "EUR", Symbol: "€"},
			{ID: "cur-gbp", Code: "GBP", Symbol: "£"},
			{ID: "cur-egp", Code: "EGP", Symbol: "E£"},
			{ID: "cur-jpy", Code: "JPY", Symbol: "¥"},
		},
		Profile: domain.Profile{ID: "usr-001", Username: "traveler", CurrencyID: "cur-eur"},
	}
}
