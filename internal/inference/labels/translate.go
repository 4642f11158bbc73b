package labels

import "strings"

const (
	classSeparator = "___"
	arabicHealthy  = "سليم"
)

// Ordered: the first key contained in the disease part wins.
var diseaseArabic = []struct{ key, ar string }{
	{"Apple_scab", "جرب التفاح"},
	{"Black_rot", "العفن الأسود"},
	{"Cedar_apple_rust", "صدأ التفاح السيدار"},
	{"healthy", arabicHealthy},
	{"Powdery_mildew", "البياض الدقيقي"},
	{"Cercospora_leaf_spot Gray_leaf_spot", "تبقع الأوراق السيركوسبورا والتبقع الرمادي"},
	{"Common_rust", "الصدأ الشائع"},
	{"Northern_Leaf_Blight", "لفحة الأوراق الشمالية"},
	{"Esca_(Black_Measles)", "الإسكا (الحصبة السوداء)"},
	{"Leaf_blight_(Isariopsis_Leaf_Spot)", "لفحة الأوراق (تبقع الأوراق الإيزاريوبسيس)"},
	{"Haunglongbing_(Citrus_greening)", "هوانجلونجبينج (اخضرار الحمضيات)"},
	{"Bacterial_spot", "التبقع البكتيري"},
	{"Early_blight", "اللفحة المبكرة"},
	{"Late_blight", "اللفحة المتأخرة"},
	{"Leaf_Mold", "عفن الأوراق"},
	{"Septoria_leaf_spot", "تبقع الأوراق السبتوريا"},
	{"Spider_mites Two-spotted_spider_mite", "العناكب ذات البقعتين"},
	{"Target_Spot", "البقعة المستهدفة"},
	{"Tomato_Yellow_Leaf_Curl_Virus", "فيروس تجعد وإصفرار أوراق الطماطم"},
	{"Tomato_mosaic_virus", "فيروس موزاييك الطماطم"},
	{"Leaf_scorch", "لفحة الأوراق"},
}

var plantArabic = map[string]string{
	"Apple":       "تفاح",
	"Blueberry":   "توت أزرق",
	"Cherry":      "كرز",
	"Corn":        "ذرة",
	"Grape":       "عنب",
	"Orange":      "برتقال",
	"Peach":       "خوخ",
	"Pepper_bell": "فلفل",
	"Potato":      "بطاطس",
	"Raspberry":   "توت العليق",
	"Soybean":     "فول الصويا",
	"Squash":      "قرع",
	"Strawberry":  "فراولة",
	"Tomato":      "طماطم",
}

var plantQualifiers = strings.NewReplacer("_(maize)", "", "_(including_sour)", "", ",", "")

// Translate renders "Tomato___Early_blight" as "Tomato - Early blight" and
// "اللفحة المبكرة في طماطم". Names without the separator come back unchanged
// in both languages.
func Translate(className string) (en, ar string) {
	plant, disease, ok := strings.Cut(className, classSeparator)
	if !ok {
		return className, className
	}

	en = strings.ReplaceAll(plant, "_", " ") + " - " + strings.ReplaceAll(disease, "_", " ")

	plantAR, found := plantArabic[plantQualifiers.Replace(plant)]
	if !found {
		plantAR = plant
	}
	diseaseAR := disease
	for _, d := range diseaseArabic {
		if strings.Contains(disease, d.key) {
			diseaseAR = d.ar
			break
		}
	}

	if diseaseAR == arabicHealthy {
		return en, plantAR + " " + diseaseAR
	}
	return en, diseaseAR + " في " + plantAR
}
