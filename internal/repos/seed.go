package repos

import (
	"gadgetshelf/internal/domain"
)

func seedCategories() []domain.Category {
	return []domain.Category{
		{ID: "computing", Name: "Computing", Subcategories: []domain.Subcategory{
			{ID: "computing-laptops", Name: "Laptops"},
			{ID: "computing-monitors", Name: "Monitors"},
		}},
		{ID: "mobile", Name: "Mobile", Subcategories: []domain.Subcategory{
			{ID: "mobile-phones", Name: "Phones"},
			{ID: "mobile-wearables", Name: "Wearables"},
		}},
		{ID: "audio-video", Name: "Audio & Video", Subcategories: []domain.Subcategory{}},
	}
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "xps-13", Brand: "Dell", ProductType: domain.Laptop,
			ProductDescription: "13-inch ultrabook with an edge-to-edge display",
			URL:                "https://www.dell.com", Image: "products/xps-13.jpg",
			Ratings: []int{5, 4, 5}, CategoryID: "computing", SubcategoryID: "computing-laptops"},
		{ID: "thinkpad-x1", Brand: "Lenovo", ProductType: domain.Laptop,
			ProductDescription: "Business laptop with a legendary keyboard",
			Image:              "products/thinkpad-x1.jpg",
			Ratings:            []int{4, 4}, CategoryID: "computing", SubcategoryID: "computing-laptops"},
		{ID: "iphone-15", Brand: "Apple", ProductType: domain.Smartphone,
			ProductDescription: "Smartphone with a 48MP main camera",
			URL:                "https://www.apple.com", Image: "products/iphone-15.jpg",
			CategoryID: "mobile", SubcategoryID: "mobile-phones"},
		{ID: "galaxy-watch", Brand: "Samsung", ProductType: domain.Smartwatch,
			ProductDescription: "Round smartwatch with health tracking",
			Image:              "products/galaxy-watch.jpg",
			Ratings:            []int{3}, CategoryID: "mobile", SubcategoryID: "mobile-wearables"},
		{ID: "wh-1000xm5", Brand: "Sony", ProductType: domain.Headphones,
			ProductDescription: "Noise cancelling over-ear headphones",
			Image:              "products/wh-1000xm5.jpg",
			Ratings:            []int{5, 5, 4, 5}, CategoryID: "audio-video"},
		{ID: "eos-r50", Brand: "Canon", ProductType: domain.Camera,
			Image: "products/eos-r50.jpg", CategoryID: "audio-video"},
	}
}
