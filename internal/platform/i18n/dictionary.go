package i18n

type entry struct{ ar, en string }

var dictionary = map[string]entry{
	"app.title":  {"الكشف عن أمراض النباتات", "Plant Disease Detection"},
	"app.footer": {"نظام الكشف عن أمراض النباتات للمزارعين التجاريين في المملكة العربية السعودية", "Plant Disease Detection System for Commercial Farmers in Saudi Arabia"},

	"home.title":           {"تحليل صورة النبات", "Analyze Plant Image"},
	"home.subtitle":        {"التقط صورة لأوراق النبات أو الحقل المصاب للكشف عن المرض وشدته", "Take a photo of the affected plant leaves or field to detect disease and severity"},
	"home.upload.title":    {"تحميل صورة", "Upload Image"},
	"home.upload.subtitle": {"يمكنك تحميل الصور بتنسيق JPG أو PNG", "You can upload images in JPG or PNG format"},
	"home.upload.button":   {"تحديد صورة", "Select Image"},
	"home.analyze.button":  {"تحليل الصورة", "Analyze Image"},
	"home.remove.button":   {"إزالة", "Remove"},

	"diagnosis.title":           {"نتيجة التحليل", "Analysis Result"},
	"diagnosis.description":     {"الوصف:", "Description:"},
	"diagnosis.severity":        {"درجة الخطورة:", "Severity Level:"},
	"diagnosis.severity.low":    {"منخفضة", "Low"},
	"diagnosis.severity.medium": {"متوسطة", "Medium"},
	"diagnosis.severity.high":   {"عالية", "High"},
	"diagnosis.loading":         {"جاري تحليل الصورة...", "Analyzing image..."},
	"diagnosis.recommendations": {"الحصول على توصيات العلاج", "Get Treatment Recommendations"},
	"diagnosis.expert":          {"التحدث مع خبير زراعي", "Talk to an Agricultural Expert"},

	"history.title": {"سجل التشخيصات", "Diagnosis History"},
	"history.empty": {"لا توجد تشخيصات سابقة", "No previous diagnoses"},
	"history.start": {"ابدأ التشخيص الأول", "Start Your First Diagnosis"},
	"history.date":  {"تاريخ التشخيص:", "Diagnosis Date:"},

	"nav.home":     {"الرئيسية", "Home"},
	"nav.history":  {"السجل", "History"},
	"nav.language": {"AR | EN", "EN | AR"},

	"notfound.title":       {"صفحة غير موجودة", "Page Not Found"},
	"notfound.description": {"الصفحة التي تبحث عنها غير موجودة", "The page you are looking for does not exist"},
	"notfound.back":        {"العودة إلى الصفحة الرئيسية", "Back to Home"},

	"date.unavailable": {"تاريخ غير متاح", "Date unavailable"},

	"error.invalid_image":          {"يرجى اختيار صورة صالحة", "Please choose a valid image"},
	"error.image_too_large":        {"حجم الصورة يتجاوز 5 ميجابايت", "The image is larger than 5 MB"},
	"error.unsupported_image_type": {"يسمح فقط بصور JPG و PNG", "Only JPG and PNG images are allowed"},
	"error.invalid_diagnosis":      {"تعذر حفظ نتيجة التشخيص، حاول مرة أخرى", "The diagnosis result could not be saved, please try again"},
	"error.internal":               {"حدث خطأ أثناء تحليل الصورة، حاول مرة أخرى", "Something went wrong while analyzing the image, please try again"},
}
