package menu

// Default returns the built-in Charco Chicken menu, used when no menu
// file is configured.
func Default() *Catalog {
	return NewCatalog([]Category{
		{
			Name:   "الأطباق الرئيسية",
			NameEn: "Main Dishes",
			Items: []Item{
				{
					ID:          "shawarma_chicken",
					Name:        "شاورما دجاج",
					NameEn:      "Chicken Shawarma",
					Description: "شاورما دجاج طازجة مع الخضار والصوص",
					Price:       1500,
					Available:   true,
				},
				{
					ID:          "grilled_chicken",
					Name:        "فروج مشوي",
					NameEn:      "Grilled Chicken",
					Description: "فروج مشوي كامل مع البهارات السورية",
					Price:       2500,
					Available:   true,
				},
				{
					ID:          "kebab",
					Name:        "كباب",
					NameEn:      "Kebab",
					Description: "كباب لحم مشوي مع الأرز",
					Price:       2000,
					Available:   true,
				},
			},
		},
		{
			Name:   "المقبلات",
			NameEn: "Appetizers",
			Items: []Item{
				{
					ID:          "hummus",
					Name:        "حمص",
					NameEn:      "Hummus",
					Description: "حمص طازج مع زيت الزيتون",
					Price:       800,
					Available:   true,
				},
				{
					ID:          "fattoush",
					Name:        "فتوش",
					NameEn:      "Fattoush",
					Description: "سلطة فتوش بالخضار الطازجة",
					Price:       1000,
					Available:   true,
				},
				{
					ID:          "tabbouleh",
					Name:        "تبولة",
					NameEn:      "Tabbouleh",
					Description: "تبولة بالبقدونس والطماطم",
					Price:       900,
					Available:   true,
				},
			},
		},
		{
			Name:   "المشروبات",
			NameEn: "Beverages",
			Items: []Item{
				{
					ID:          "ayran",
					Name:        "عيران",
					NameEn:      "Ayran",
					Description: "عيران طازج",
					Price:       300,
					Available:   true,
				},
				{
					ID:          "tea",
					Name:        "شاي",
					NameEn:      "Tea",
					Description: "شاي أحمر",
					Price:       200,
					Available:   true,
				},
				{
					ID:          "coffee",
					Name:        "قهوة",
					NameEn:      "Coffee",
					Description: "قهوة عربية",
					Price:       400,
					Available:   true,
				},
			},
		},
	}, "USD")
}
