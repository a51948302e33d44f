//go:build ignore

// generate_sample_catalog writes the storefront's sample catalogue snapshot.
//
//	go run scripts/generate_sample_catalog.go [output path]
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"veggie-kart/internal/model"

	"github.com/shopspring/decimal"
)

func product(id int64, name, image, category string, price, original int64, stock int, offer bool, names map[string]string) model.Product {
	return model.Product{
		ID:            id,
		Name:          name,
		Names:         names,
		Category:      category,
		Price:         decimal.NewFromInt(price),
		OriginalPrice: decimal.NewFromInt(original),
		Stock:         stock,
		Image:         "assets/" + image + ".jpg",
		TodaysOffer:   offer,
	}
}

func main() {
	out := "data/catalog/products.json.gz"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	products := []model.Product{
		product(1, "Fresh Tomatoes", "tomato", "fruit", 40, 50, 50, true, map[string]string{"hi": "ताज़ा टमाटर", "kn": "ತಾಜಾ ಟೊಮೇಟೊಗಳು", "mr": "ताजी टोमॅटो"}),
		product(2, "Organic Spinach", "spinach", "leafy", 30, 35, 30, false, map[string]string{"hi": "जैविक पालक", "kn": "ಸಾವಯವ ಪಾಲಕ್", "mr": "ऑर्गेनिक पालक"}),
		product(3, "Carrots", "carrot", "root", 45, 55, 40, true, map[string]string{"hi": "गाजर", "kn": "ಕ್ಯಾರೆಟ್", "mr": "गाजर"}),
		product(4, "Potatoes", "potato", "root", 25, 30, 60, false, map[string]string{"hi": "आलू", "kn": "ಆಲೂ", "mr": "बटाटे"}),
		product(5, "Cabbage", "cabbage", "leafy", 20, 25, 25, true, map[string]string{"hi": "पत्ता गोभी", "kn": "ಕೋಸು", "mr": "कोबी"}),
		product(6, "Onions", "onion", "root", 35, 40, 45, false, map[string]string{"hi": "प्याज़", "kn": "ಈರುಳ್ಳಿ", "mr": "कांदे"}),
		product(7, "Capsicum", "capsicum", "fruit", 60, 70, 20, true, map[string]string{"hi": "शिमला मिर्च", "kn": "ಕ್ಯಾಪ್ಸಿಕಮ್", "mr": "भोपळी मिरची"}),
		product(8, "Ladies Finger", "ladiesfinger", "fruit", 50, 60, 35, false, map[string]string{"hi": "भिंडी", "kn": "ಬೆಂಡೆ ಕಾಯಿ", "mr": "भेंडी"}),
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := writeSnapshot(out, products); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}

	fmt.Printf("Created %s with %d products\n", out, len(products))
}

func writeSnapshot(path string, products []model.Product) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file

	if strings.HasSuffix(path, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(products); err != nil {
		return fmt.Errorf("failed to encode catalogue: %w", err)
	}

	return nil
}
