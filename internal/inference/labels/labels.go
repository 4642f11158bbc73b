// Package labels holds the class index the model server scores against and
// the English/Arabic rendering of its "Plant___Disease" class names.
package labels

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Index maps a model output position to its class name.
type Index struct {
	names []string
}

// PlantVillage is the 38-class index the bundled model was trained on.
var plantVillage = []string{
	"Apple___Apple_scab",
	"Apple___Black_rot",
	"Apple___Cedar_apple_rust",
	"Apple___healthy",
	"Blueberry___healthy",
	"Cherry_(including_sour)___Powdery_mildew",
	"Cherry_(including_sour)___healthy",
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot",
	"Corn_(maize)___Common_rust_",
	"Corn_(maize)___Northern_Leaf_Blight",
	"Corn_(maize)___healthy",
	"Grape___Black_rot",
	"Grape___Esca_(Black_Measles)",
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy",
	"Orange___Haunglongbing_(Citrus_greening)",
	"Peach___Bacterial_spot",
	"Peach___healthy",
	"Pepper,_bell___Bacterial_spot",
	"Pepper,_bell___healthy",
	"Potato___Early_blight",
	"Potato___Late_blight",
	"Potato___healthy",
	"Raspberry___healthy",
	"Soybean___healthy",
	"Squash___Powdery_mildew",
	"Strawberry___Leaf_scorch",
	"Strawberry___healthy",
	"Tomato___Bacterial_spot",
	"Tomato___Early_blight",
	"Tomato___Late_blight",
	"Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot",
	"Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot",
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus",
	"Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

func PlantVillage() *Index {
	return &Index{names: append([]string(nil), plantVillage...)}
}

// Load reads a JSON object such as {"0": "Apple___Apple_scab", ...}. Keys
// must cover 0..n-1 exactly.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Index, error) {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("class index: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("class index is empty")
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("class index key %q is not a non-negative integer", k)
		}
		keys = append(keys, i)
	}
	sort.Ints(keys)
	names := make([]string, len(keys))
	for pos, i := range keys {
		if i != pos {
			return nil, fmt.Errorf("class index is missing position %d", pos)
		}
		names[pos] = m[strconv.Itoa(i)]
	}
	return &Index{names: names}, nil
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.names)
}

// Name returns the class at i, or "Unknown" when i is out of range.
func (ix *Index) Name(i int) string {
	if ix == nil || i < 0 || i >= len(ix.names) {
		return "Unknown"
	}
	return ix.names[i]
}
