package disease

import "github.com/yungbote/plantdx-backend/internal/domain/diagnosis"

var unknownEntry = Entry{
	Name: diagnosis.NewLocalized("غير معروف", "Unknown"),
	Description: diagnosis.NewLocalized(
		"لم يتم التعرف على الصورة بوضوح. يرجى التقاط صورة أخرى بإضاءة أفضل والتركيز على جزء النبات المصاب.",
		"The image couldn't be clearly identified. Please take another photo with better lighting and focus on the affected plant part.",
	),
	Severity:      diagnosis.SeverityMedium,
	SeverityScore: 50,
}

const healthyAdviceEN = "This plant appears healthy with no visible disease symptoms. Continue good agricultural practices."
const healthyAdviceAR = "يبدو هذا النبات سليمًا دون أعراض مرض ظاهرة. استمر في الممارسات الزراعية الجيدة."

func healthy(plant, ar, en string) Entry {
	return Entry{
		Name:          diagnosis.NewLocalized(ar, en),
		Description:   diagnosis.NewLocalized(healthyAdviceAR, healthyAdviceEN),
		Severity:      diagnosis.SeverityLow,
		SeverityScore: 10,
		Plant:         plant,
		Healthy:       true,
	}
}

var defaultEntries = []Entry{
	{
		Name: diagnosis.NewLocalized("التبقع البكتيري للطماطم", "Tomato Bacterial Spot"),
		Description: diagnosis.NewLocalized(
			"مرض بكتيري يسبب بقعًا صغيرة داكنة على الأوراق والسيقان والثمار. ينتشر في الظروف الدافئة والرطبة.",
			"A bacterial disease causing small, dark spots on leaves, stems, and fruits. Spreads in warm, wet conditions.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 60,
		Plant: "tomato", Keywords: []string{"bacterial spot", "bacterial"},
	},
	{
		Name: diagnosis.NewLocalized("اللفحة المبكرة للطماطم", "Tomato Early Blight"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب حلقات متحدة المركز داكنة على الأوراق السفلية أولاً. يمكن أن يتلف النباتات بشدة إذا لم يتم علاجه.",
			"A fungal disease causing dark, concentric rings on lower leaves first. Can severely damage plants if not treated.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 75,
		Plant: "tomato", Keywords: []string{"early blight"},
	},
	{
		Name: diagnosis.NewLocalized("اللفحة المتأخرة للطماطم", "Tomato Late Blight"),
		Description: diagnosis.NewLocalized(
			"مرض فطري مدمر يسبب بقعًا كبيرة داكنة على الأوراق وآفات بنية على الثمار. ينتشر بسرعة في الطقس البارد والرطب.",
			"A devastating fungal disease causing large, dark blotches on leaves and brown lesions on fruits. Spreads rapidly in cool, wet weather.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 90,
		Plant: "tomato", Keywords: []string{"late blight"},
	},
	{
		Name: diagnosis.NewLocalized("عفن أوراق الطماطم", "Tomato Leaf Mold"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا صفراء على أسطح الأوراق وجراثيم زيتونية خضراء تحتها. يزدهر في الظروف الرطبة.",
			"A fungal disease causing yellow patches on leaf surfaces and olive-green spores underneath. Thrives in humid conditions.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 65,
		Plant: "tomato", Keywords: []string{"leaf mold", "mold"},
	},
	{
		Name: diagnosis.NewLocalized("تبقع السبتوريا على أوراق الطماطم", "Tomato Septoria Leaf Spot"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا صغيرة دائرية ذات حدود داكنة ومراكز فاتحة على الأوراق. يبدأ على الأوراق السفلية وينتقل للأعلى.",
			"A fungal disease causing small, circular spots with dark borders and light centers on leaves. Starts on lower leaves and moves upward.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 55,
		Plant: "tomato", Keywords: []string{"septoria"},
	},
	{
		Name: diagnosis.NewLocalized("فيروس الطماطم", "Tomato Virus"),
		Description: diagnosis.NewLocalized(
			"عدوى فيروسية تسبب أوراقًا مبقعة، ونموًا متقزمًا، وتشوهًا في الثمار. تنتشر عن طريق الحشرات ولا يمكن علاجها.",
			"Viral infections causing mottled leaves, stunted growth, and fruit deformation. Spread by insects and cannot be cured.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 85,
		Plant: "tomato", Keywords: []string{"virus", "mosaic", "curl"},
	},
	healthy("tomato", "طماطم سليمة", "Tomato Healthy"),
	{
		Name: diagnosis.NewLocalized("اللفحة المبكرة للبطاطس", "Potato Early Blight"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا داكنة تشبه الأهداف على الأوراق. يمكن أن يقلل المحصول بشكل كبير إذا لم تتم إدارته.",
			"A fungal disease causing dark, target-like spots on leaves. Can reduce yield significantly if not managed.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 70,
		Plant: "potato", Keywords: []string{"early blight"},
	},
	{
		Name: diagnosis.NewLocalized("اللفحة المتأخرة للبطاطس", "Potato Late Blight"),
		Description: diagnosis.NewLocalized(
			"مرض فطري خطير يسبب آفات داكنة مشبعة بالماء على الأوراق والدرنات. يمكن أن يدمر المحاصيل بأكملها بسرعة.",
			"A serious fungal disease causing dark, water-soaked lesions on leaves and tubers. Can destroy entire crops rapidly.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 95,
		Plant: "potato", Keywords: []string{"late blight"},
	},
	{
		Name: diagnosis.NewLocalized("صدأ الذرة الشائع", "Corn Common Rust"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا صغيرة صدئة على الأوراق. يقلل من عملية التمثيل الضوئي والإنتاج في الحالات الشديدة.",
			"A fungal disease causing small, rusty spots on leaves. Reduces photosynthesis and yield in severe cases.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 50,
		Plant: "corn", Keywords: []string{"common rust", "rust"},
	},
	{
		Name: diagnosis.NewLocalized("لفحة أوراق الذرة الشمالية", "Corn Northern Leaf Blight"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب آفات طويلة تشبه السيجار على الأوراق. يقلل من الإنتاج والجودة في الحالات الشديدة.",
			"A fungal disease causing long, cigar-shaped lesions on leaves. Reduces yield and quality in severe cases.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 75,
		Plant: "corn", Keywords: []string{"northern leaf blight", "leaf blight"},
	},
	{
		Name: diagnosis.NewLocalized("صدأ القمح", "Wheat Rust"),
		Description: diagnosis.NewLocalized(
			"الصدأ هو مرض فطري يظهر على شكل بثور بنية محمرة على أوراق وسيقان القمح. يمكن أن يقلل بشدة من غلة المحصول وجودته إذا ترك دون علاج.",
			"A fungal disease that appears as reddish-brown pustules on wheat leaves and stems. Can severely reduce crop yield and quality if left untreated.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 80,
		Plant: "wheat", Keywords: []string{"rust"},
	},
	{
		Name: diagnosis.NewLocalized("البياض الدقيقي", "Powdery Mildew"),
		Description: diagnosis.NewLocalized(
			"البياض الدقيقي هو مرض فطري يظهر على شكل بقع بيضاء على أوراق النبات والسيقان وأحيانًا الثمار. يمكن أن ينتشر بسرعة في ظروف الرطوبة العالية ويؤثر على نمو النبات وإنتاجيته.",
			"A fungal disease that appears as white powdery spots on leaves, stems, and sometimes fruit. It can spread quickly in high humidity conditions and affects plant growth and yield.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 60,
		Keywords: []string{"powdery mildew", "mildew"},
	},

	// Classes of the bundled model server that the table above does not cover.
	{
		Name: diagnosis.NewLocalized("جرب التفاح", "Apple Scab"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا زيتونية داكنة على الأوراق وتشققات على الثمار. ينتشر في الربيع الرطب.",
			"A fungal disease causing olive-dark spots on leaves and cracked, scabby fruit. Spreads during wet spring weather.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 55,
		Plant: "apple", Keywords: []string{"scab"},
	},
	{
		Name: diagnosis.NewLocalized("العفن الأسود في التفاح", "Apple Black Rot"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا أرجوانية على الأوراق وتعفنًا أسود للثمار وتقرحات على الأغصان.",
			"A fungal disease causing purple-edged leaf spots, black fruit rot and cankers on limbs.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 70,
		Plant: "apple", Keywords: []string{"black rot", "rot"},
	},
	{
		Name: diagnosis.NewLocalized("صدأ التفاح السيدار", "Cedar Apple Rust"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يحتاج إلى أشجار العرعر لإكمال دورته، ويسبب بقعًا صفراء برتقالية على أوراق التفاح.",
			"A fungal disease that alternates between junipers and apples, causing bright yellow-orange spots on apple leaves.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 50,
		Plant: "apple", Keywords: []string{"cedar", "rust"},
	},
	healthy("apple", "تفاح سليم", "Apple Healthy"),
	{
		Name: diagnosis.NewLocalized("العفن الأسود في العنب", "Grape Black Rot"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا بنية على الأوراق ويحول حبات العنب إلى ثمار سوداء متيبسة.",
			"A fungal disease causing brown leaf lesions and turning berries into hard, black mummies.",
		),
		Severity: diagnosis.SeverityHigh, SeverityScore: 75,
		Plant: "grape", Keywords: []string{"black rot", "rot"},
	},
	healthy("grape", "عنب سليم", "Grape Healthy"),
	{
		Name: diagnosis.NewLocalized("التبقع البكتيري في الفلفل", "Pepper Bacterial Spot"),
		Description: diagnosis.NewLocalized(
			"مرض بكتيري يسبب بقعًا مائية تتحول إلى اللون البني على الأوراق والثمار. ينتشر مع رذاذ الماء.",
			"A bacterial disease causing water-soaked spots that turn brown on leaves and fruit. Spreads with splashing water.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 60,
		Plant: "pepper", Keywords: []string{"bacterial", "spot"},
	},
	healthy("pepper", "فلفل سليم", "Pepper Healthy"),
	{
		Name: diagnosis.NewLocalized("التبقع الرمادي في أوراق الذرة", "Corn Gray Leaf Spot"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب آفات رمادية مستطيلة بين عروق الأوراق. يزداد في الطقس الدافئ والرطب.",
			"A fungal disease causing rectangular gray lesions between leaf veins. Worsens in warm, humid weather.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 60,
		Plant: "corn", Keywords: []string{"gray leaf spot", "cercospora"},
	},
	healthy("corn", "ذرة سليمة", "Corn Healthy"),
	healthy("potato", "بطاطس سليمة", "Potato Healthy"),
	{
		Name: diagnosis.NewLocalized("البقعة المستهدفة في الطماطم", "Tomato Target Spot"),
		Description: diagnosis.NewLocalized(
			"مرض فطري يسبب بقعًا بنية ذات حلقات على الأوراق والثمار ويؤدي إلى تساقط الأوراق.",
			"A fungal disease causing brown, ringed spots on leaves and fruit that lead to leaf drop.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 55,
		Plant: "tomato", Keywords: []string{"target spot"},
	},
	{
		Name: diagnosis.NewLocalized("العناكب الحمراء على الطماطم", "Tomato Spider Mites"),
		Description: diagnosis.NewLocalized(
			"آفة حشرية صغيرة تمتص عصارة الأوراق فتظهر نقاط صفراء وخيوط عنكبوتية دقيقة. تنتشر في الطقس الحار والجاف.",
			"Tiny pests that suck sap from leaves, leaving yellow stippling and fine webbing. Thrive in hot, dry weather.",
		),
		Severity: diagnosis.SeverityMedium, SeverityScore: 45,
		Plant: "tomato", Keywords: []string{"spider mite", "mites"},
	},
	healthy("", "نبات سليم", HealthyPlantName),
	unknownEntry,
}

var defaultTable = NewTable(defaultEntries)

// Default returns the built-in table.
func Default() *Table { return defaultTable }
