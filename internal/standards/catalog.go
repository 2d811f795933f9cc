// Package standards holds the fixed DGA compliance standard taxonomy and
// the cached embeddings of its descriptions.
package standards

import "sort"

// Descriptions maps each standard id to its keyword-rich Arabic
// description. The keywords are tuned for embedding similarity against
// government compliance documents.
var Descriptions = map[string]string{
	// 5.2 digital transformation governance
	"5.2.1": "تأسيس لجنة للتحول الرقمي وحوكمة التحول الرقمي لجنة توجيهية قرار تشكيل اللجنة صلاحيات اللجنة اجتماعات دورية محاضر اجتماعات",
	"5.2.2": "إطار حوكمة التحول الرقمي ومبادرات التحول وبطاقات المبادرات خطة التحول الرقمي استراتيجية رقمية مؤشرات أداء KPIs",
	"5.2.3": "التعاون المشترك بين الجهات والمشاريع المشتركة والاتفاقيات المشتركة وتقارير دورية مشتركة مذكرات تفاهم شراكات حكومية تكامل الخدمات",

	// 5.3 enterprise architecture
	"5.3.1": "تأسيس وحدة البنية المؤسسية فريق البنية المؤسسية هيكل تنظيمي مهام ومسؤوليات",
	"5.3.2": "تطبيق ممارسة البنية المؤسسية معمارية المؤسسة TOGAF نماذج معمارية وثائق البنية",

	// 5.8 risk management
	"5.8.1": "إدارة مخاطر تقنية المعلومات سجل المخاطر تحليل المخاطر خطط معالجة المخاطر مصفوفة المخاطر",
	"5.8.2": "تقييم المخاطر الأمنية اختبار الاختراق فحص الثغرات تدقيق أمني مراجعة أمنية",

	// 5.9 business continuity
	"5.9.1": "استمرارية الأعمال وخطة التعافي من الكوارث خطة استمرارية BCP DRP موقع بديل نسخ احتياطي",
	"5.9.2": "تحليل أثر الأعمال BIA تحديد الأنظمة الحرجة وقت التعافي RTO RPO",
	"5.9.3": "اختبار خطط استمرارية الأعمال تمارين محاكاة سيناريوهات الطوارئ",

	// 5.10 digital project management
	"5.10.1": "تأسيس مكتب إدارة المشاريع الرقمية PMO مكتب المشاريع منهجية إدارة المشاريع حوكمة المشاريع",
	"5.10.2": "استخدام الأنظمة الرقمية لإدارة المشاريع ولوحات التحكم والتقارير نظام إدارة المشاريع dashboard متابعة المشاريع تقارير الإنجاز",

	// 5.13 government platforms
	"5.13.1": "منصات الحكومة الشاملة والخدمات المشتركة منصة حكومية تكامل الأنظمة خدمات مشتركة بوابة إلكترونية",

	// 5.15 digital channels and services
	"5.15.1": "القنوات الرقمية والخدمات الإلكترونية تطبيق جوال موقع إلكتروني خدمات إلكترونية تجربة المستخدم UX",

	// 5.17 data and AI
	"5.17.1": "البيانات والذكاء الاصطناعي وتحليل البيانات حوكمة البيانات جودة البيانات تعلم آلي نماذج ذكاء اصطناعي",

	// 5.18 cloud computing
	"5.18.1": "الحوسبة السحابية والبنية التحتية السحابية خدمات سحابية IaaS PaaS SaaS هجرة سحابية",
}

// IsKnown reports whether id names a catalog standard.
func IsKnown(id string) bool {
	_, ok := Descriptions[id]
	return ok
}

// IDs returns all standard ids in lexicographic order.
func IDs() []string {
	ids := make([]string, 0, len(Descriptions))
	for id := range Descriptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
