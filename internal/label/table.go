package label

// HealthyKey is the disease key the classifier emits for disease-free leaves.
const HealthyKey = "healthy"

// UnknownClass is the identifier used when the class index has no entry for
// a predicted index.
const UnknownClass = "Unknown"

// Entry is a display name in English and Arabic.
type Entry struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// Alias maps a compound disease label from the upstream taxonomy to the
// canonical key used for lookup.
type Alias struct {
	Label string
	Key   string
}

// Table holds the translation data. It is built once and only read after
// that, so a single Table may be shared by any number of goroutines.
type Table struct {
	plants       map[string]Entry
	plantAliases map[string]string
	qualifiers   []string
	diseases     map[string]Entry
	descriptions map[string]Entry
	aliases      []Alias
	specials     map[string]Entry
	taxonomy     []string
}

// DefaultTable returns the built-in PlantVillage translation table.
func DefaultTable() *Table {
	return &Table{
		plants: map[string]Entry{
			"Apple":       {"Apple", "تفاح"},
			"Blueberry":   {"Blueberry", "توت أزرق"},
			"Cherry":      {"Cherry", "كرز"},
			"Corn":        {"Corn", "ذرة"},
			"Grape":       {"Grape", "عنب"},
			"Orange":      {"Orange", "برتقال"},
			"Peach":       {"Peach", "خوخ"},
			"Pepper_bell": {"Bell pepper", "فلفل"},
			"Potato":      {"Potato", "بطاطس"},
			"Raspberry":   {"Raspberry", "توت العليق"},
			"Soybean":     {"Soybean", "فول الصويا"},
			"Squash":      {"Squash", "قرع"},
			"Strawberry":  {"Strawberry", "فراولة"},
			"Tomato":      {"Tomato", "طماطم"},
		},
		plantAliases: map[string]string{
			"Pepper,_bell": "Pepper_bell",
		},
		qualifiers: []string{"_(maize)", "_(including_sour)"},
		diseases: map[string]Entry{
			"Apple_scab":                         {"Apple scab", "جرب التفاح"},
			"Black_rot":                          {"Black rot", "العفن الأسود"},
			"Cedar_apple_rust":                   {"Cedar apple rust", "صدأ التفاح السيدار"},
			HealthyKey:                           {"Healthy", "سليم"},
			"Powdery_mildew":                     {"Powdery mildew", "البياض الدقيقي"},
			"Gray_leaf_spot":                     {"Gray leaf spot", "تبقع الأوراق السيركوسبورا والتبقع الرمادي"},
			"Common_rust":                        {"Common rust", "الصدأ الشائع"},
			"Northern_Leaf_Blight":               {"Northern leaf blight", "لفحة الأوراق الشمالية"},
			"Esca_(Black_Measles)":               {"Esca (black measles)", "الإسكا (الحصبة السوداء)"},
			"Leaf_blight_(Isariopsis_Leaf_Spot)": {"Leaf blight (Isariopsis leaf spot)", "لفحة الأوراق (تبقع الأوراق الإيزاريوبسيس)"},
			"Haunglongbing_(Citrus_greening)":    {"Huanglongbing (citrus greening)", "هوانجلونجبينج (اخضرار الحمضيات)"},
			"Bacterial_spot":                     {"Bacterial spot", "التبقع البكتيري"},
			"Early_blight":                       {"Early blight", "اللفحة المبكرة"},
			"Late_blight":                        {"Late blight", "اللفحة المتأخرة"},
			"Leaf_Mold":                          {"Leaf mold", "عفن الأوراق"},
			"Septoria_leaf_spot":                 {"Septoria leaf spot", "تبقع الأوراق السبتوريا"},
			"Spider_mites":                       {"Spider mites", "العناكب ذات البقعتين"},
			"Target_Spot":                        {"Target spot", "البقعة المستهدفة"},
			"Tomato_Yellow_Leaf_Curl_Virus":      {"Yellow leaf curl virus", "فيروس تجعد وإصفرار أوراق الطماطم"},
			"Tomato_mosaic_virus":                {"Mosaic virus", "فيروس موزاييك الطماطم"},
			"Leaf_scorch":                        {"Leaf scorch", "لفحة الأوراق"},
		},
		descriptions: map[string]Entry{
			"Apple_scab": {
				"A fungal disease causing olive-green to black scabby spots on leaves and fruit. Severe infections make leaves drop early.",
				"مرض فطري يسبب بقعًا جربية زيتونية إلى سوداء على الأوراق والثمار. تؤدي الإصابة الشديدة إلى تساقط الأوراق مبكرًا.",
			},
			"Black_rot": {
				"A fungal disease causing brown leaf spots with purple margins and black, shrivelled fruit rot.",
				"مرض فطري يسبب بقعًا بنية ذات حواف أرجوانية على الأوراق وتعفنًا أسود يؤدي إلى انكماش الثمار.",
			},
			"Cedar_apple_rust": {
				"A fungal disease causing bright orange-yellow spots on leaves. It needs nearby juniper or cedar trees to complete its life cycle.",
				"مرض فطري يسبب بقعًا صفراء برتقالية زاهية على الأوراق. يحتاج إلى أشجار العرعر أو الأرز القريبة لإكمال دورة حياته.",
			},
			HealthyKey: {
				"This plant appears healthy with no visible disease symptoms. Continue good agricultural practices.",
				"يبدو هذا النبات سليمًا دون أعراض مرض ظاهرة. استمر في الممارسات الزراعية الجيدة.",
			},
			"Powdery_mildew": {
				"A fungal disease that appears as white powdery spots on leaves, stems, and sometimes fruit. It can spread quickly in high humidity conditions and affects plant growth and yield.",
				"البياض الدقيقي هو مرض فطري يظهر على شكل بقع بيضاء على أوراق النبات والسيقان وأحيانًا الثمار. يمكن أن ينتشر بسرعة في ظروف الرطوبة العالية ويؤثر على نمو النبات وإنتاجيته.",
			},
			"Gray_leaf_spot": {
				"A fungal disease causing long, rectangular grey to tan lesions between leaf veins. Warm, humid weather favours it.",
				"مرض فطري يسبب آفات مستطيلة طويلة رمادية إلى بنية فاتحة بين عروق الأوراق. يفضله الطقس الدافئ والرطب.",
			},
			"Common_rust": {
				"A fungal disease causing small, rusty spots on leaves. Reduces photosynthesis and yield in severe cases.",
				"مرض فطري يسبب بقعًا صغيرة صدئة على الأوراق. يقلل من عملية التمثيل الضوئي والإنتاج في الحالات الشديدة.",
			},
			"Northern_Leaf_Blight": {
				"A fungal disease causing long, cigar-shaped lesions on leaves. Reduces yield and quality in severe cases.",
				"مرض فطري يسبب آفات طويلة تشبه السيجار على الأوراق. يقلل من الإنتاج والجودة في الحالات الشديدة.",
			},
			"Esca_(Black_Measles)": {
				"A fungal trunk disease causing tiger-stripe patterns on leaves and dark spots on berries. Vines can collapse suddenly in hot weather.",
				"مرض فطري يصيب الجذع ويسبب أنماطًا مخططة على الأوراق وبقعًا داكنة على الحبات. قد تنهار الكروم فجأة في الطقس الحار.",
			},
			"Leaf_blight_(Isariopsis_Leaf_Spot)": {
				"A fungal disease causing dark, irregular spots that merge until the leaves dry out and fall early.",
				"مرض فطري يسبب بقعًا داكنة غير منتظمة تندمج معًا حتى تجف الأوراق وتتساقط مبكرًا.",
			},
			"Haunglongbing_(Citrus_greening)": {
				"A bacterial disease spread by psyllids causing blotchy yellow leaves and small, bitter, misshapen fruit. Infected trees cannot be cured.",
				"مرض بكتيري تنقله حشرة السيلا يسبب اصفرارًا غير منتظم في الأوراق وثمارًا صغيرة مرة مشوهة. لا يمكن علاج الأشجار المصابة.",
			},
			"Bacterial_spot": {
				"A bacterial disease causing small, dark spots on leaves, stems, and fruits. Spreads in warm, wet conditions.",
				"مرض بكتيري يسبب بقعًا صغيرة داكنة على الأوراق والسيقان والثمار. ينتشر في الظروف الدافئة والرطبة.",
			},
			"Early_blight": {
				"A fungal disease causing dark, concentric rings on lower leaves first. Can severely damage plants if not treated.",
				"مرض فطري يسبب حلقات متحدة المركز داكنة على الأوراق السفلية أولاً. يمكن أن يتلف النباتات بشدة إذا لم يتم علاجه.",
			},
			"Late_blight": {
				"A devastating fungal disease causing large, dark blotches on leaves and brown lesions on fruits. Spreads rapidly in cool, wet weather.",
				"مرض فطري مدمر يسبب بقعًا كبيرة داكنة على الأوراق وآفات بنية على الثمار. ينتشر بسرعة في الطقس البارد والرطب.",
			},
			"Leaf_Mold": {
				"A fungal disease causing yellow patches on leaf surfaces and olive-green spores underneath. Thrives in humid conditions.",
				"مرض فطري يسبب بقعًا صفراء على أسطح الأوراق وجراثيم زيتونية خضراء تحتها. يزدهر في الظروف الرطبة.",
			},
			"Septoria_leaf_spot": {
				"A fungal disease causing small, circular spots with dark borders and light centers on leaves. Starts on lower leaves and moves upward.",
				"مرض فطري يسبب بقعًا صغيرة دائرية ذات حدود داكنة ومراكز فاتحة على الأوراق. يبدأ على الأوراق السفلية وينتقل للأعلى.",
			},
			"Spider_mites": {
				"Tiny mites feed on the underside of leaves, causing yellow speckling and fine webbing. Outbreaks grow fast in hot, dry weather.",
				"عناكب دقيقة تتغذى على السطح السفلي للأوراق مسببة تبقعًا أصفر ونسيجًا رقيقًا. تتكاثر بسرعة في الطقس الحار والجاف.",
			},
			"Target_Spot": {
				"A fungal disease causing brown spots with concentric rings on leaves and fruit. Heavy infections strip the plant of its leaves.",
				"مرض فطري يسبب بقعًا بنية ذات حلقات متحدة المركز على الأوراق والثمار. تؤدي الإصابة الشديدة إلى تساقط أوراق النبات.",
			},
			"Tomato_Yellow_Leaf_Curl_Virus": {
				"Viral infections causing mottled leaves, stunted growth, and fruit deformation. Spread by insects and cannot be cured.",
				"عدوى فيروسية تسبب أوراقًا مبقعة، ونموًا متقزمًا، وتشوهًا في الثمار. تنتشر عن طريق الحشرات ولا يمكن علاجها.",
			},
			"Tomato_mosaic_virus": {
				"A viral disease causing light and dark green mosaic patterns and distorted leaves. Spreads by contact and cannot be cured.",
				"مرض فيروسي يسبب أنماطًا فسيفسائية من الأخضر الفاتح والداكن وتشوهًا في الأوراق. ينتقل بالملامسة ولا يمكن علاجه.",
			},
			"Leaf_scorch": {
				"A fungal disease causing many small purple spots that merge until the leaf edges look burnt.",
				"مرض فطري يسبب بقعًا أرجوانية صغيرة كثيرة تندمج حتى تبدو حواف الأوراق محترقة.",
			},
			UnknownClass: {
				"The image couldn't be clearly identified. Please take another photo with better lighting and focus on the affected plant part.",
				"لم يتم التعرف على الصورة بوضوح. يرجى التقاط صورة أخرى بإضاءة أفضل والتركيز على جزء النبات المصاب.",
			},
		},
		aliases: []Alias{
			{Label: "Spider_mites Two-spotted_spider_mite", Key: "Spider_mites"},
			{Label: "Cercospora_leaf_spot Gray_leaf_spot", Key: "Gray_leaf_spot"},
		},
		specials: map[string]Entry{
			HealthyKey:   {"Healthy plant", "نبات سليم"},
			UnknownClass: {"Unknown disease", "مرض غير معروف"},
		},
		taxonomy: []string{
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
		},
	}
}

// Plant returns the names for a canonical plant key.
func (t *Table) Plant(key string) (Entry, bool) {
	e, ok := t.plants[key]
	return e, ok
}

// Disease returns the names for a canonical disease key.
func (t *Table) Disease(key string) (Entry, bool) {
	e, ok := t.diseases[key]
	return e, ok
}

// Description returns the description for a canonical disease key, or for
// the HealthyKey and UnknownClass identifiers.
func (t *Table) Description(key string) (Entry, bool) {
	e, ok := t.descriptions[key]
	return e, ok
}

// Classes returns the class identifiers of the built-in taxonomy in the
// order the classifier was trained on, which is also sorted order. The
// returned slice is a copy.
func (t *Table) Classes() []string {
	out := make([]string, len(t.taxonomy))
	copy(out, t.taxonomy)
	return out
}
