package names

// commonMedicineMap maps normalized brand or colloquial names to generic
// compositions, Indian market focus. Keys are already normalized: lowercase,
// punctuation stripped.
var commonMedicineMap = map[string]string{
	// Pain and fever
	"dolo":      "Paracetamol",
	"dolo 650":  "Paracetamol 650mg",
	"dolo dt":   "Paracetamol Dispersible Tablet",
	"crocin":    "Paracetamol",
	"calpol":    "Paracetamol",
	"combiflam": "Ibuprofen + Paracetamol",
	"brufen":    "Ibuprofen",
	"volini":    "Diclofenac Topical",
	"voveran":   "Diclofenac",

	// Gastric/Antacids
	"pantop":     "Pantoprazole",
	"pantop d":   "Pantoprazole + Domperidone",
	"pan d":      "Pantoprazole + Domperidone",
	"omez":       "Omeprazole",
	"omez d":     "Omeprazole + Domperidone",
	"rantac":     "Ranitidine",
	"gelusil":    "Aluminium Hydroxide + Magnesium Hydroxide",
	"digene":     "Aluminium Hydroxide + Magnesium Hydroxide + Simethicone",
	"pudin hara": "Pudina (Mint) Extract",

	// Antibiotics
	"augmentin": "Amoxicillin + Clavulanic Acid",
	"azithral":  "Azithromycin",
	"cifran":    "Ciprofloxacin",
	"clavam":    "Amoxicillin + Clavulanic Acid",
	"zenflox":   "Ofloxacin",

	// Cold and cough
	"sinarest":         "Paracetamol + Phenylephrine + Chlorpheniramine",
	"wikoryl":          "Paracetamol + Phenylephrine + Chlorpheniramine",
	"alex":             "Dextromethorphan + Phenylephrine + Chlorpheniramine",
	"ascoril":          "Levosalbutamol + Ambroxol + Guaifenesin",
	"benadryl":         "Diphenhydramine",
	"vicks action 500": "Paracetamol + Phenylephrine + Chlorpheniramine",

	// Diabetes
	"glycomet": "Metformin",
	"amaryl":   "Glimepiride",
	"glucobay": "Acarbose",
	"januvia":  "Sitagliptin",

	// Heart/BP
	"telma":    "Telmisartan",
	"amlodac":  "Amlodipine",
	"stamlo":   "Amlodipine",
	"ecosprin": "Aspirin Low Dose",
	"deplatt":  "Clopidogrel",

	// Supplements
	"shelcal":   "Calcium Carbonate + Vitamin D3",
	"calcirol":  "Cholecalciferol (Vitamin D3)",
	"becosules": "Vitamin B Complex",
	"zincovit":  "Multivitamin + Zinc",
	"revital":   "Multivitamin + Minerals",

	// Women's health
	"meftal spas": "Mefenamic Acid + Dicyclomine",
	"cyclopam":    "Dicyclomine + Paracetamol",
	"mensovit":    "Tranexamic Acid + Mefenamic Acid",
	"folvite":     "Folic Acid",

	// Skin
	"panderm":    "Triamcinolone + Oxytetracycline + Nystatin",
	"betnovate":  "Betamethasone",
	"soframycin": "Framycetin",
	"neosporin":  "Neomycin + Bacitracin + Polymyxin B",

	// Others
	"nice tablet":       "Nimesulide", // Nimesulide has safety concerns
	"nice":              "Nimesulide",
	"nimesulide":        "Nimesulide",
	"confido":           "Herbal Supplement for Male Health",
	"liv 52":            "Herbal Liver Tonic",
	"himalaya septilin": "Herbal Immune Booster",
}
