package conversation

import (
	"strings"

	"github.com/wolfman30/robotics-consultant/internal/templates"
)

// Template ids. Reply templates are selected by consultation type; the
// extract.* entries are the canned sentences the extractor emits.
const (
	tmplPreamble        = "system.preamble"
	tmplReplyROI        = "reply.roi"
	tmplReplyPricing    = "reply.pricing"
	tmplReplyDemo       = "reply.demo"
	tmplReplyIndustry   = "reply.industry_specific"
	tmplReplyHelp       = "reply.general_help"
	tmplReplyGeneral    = "reply.general_consultation"
	tmplReplyOverview   = "reply.overview"
	tmplFallback        = "fallback.greeting"
	tmplReasonVoice     = "extract.reasoning.voice"
	tmplReasonDisplay   = "extract.reasoning.display"
	tmplReasonAutonomy  = "extract.reasoning.autonomous"
	tmplReasonDefault   = "extract.reasoning.default"
	tmplImplTraining    = "extract.implementation.training"
	tmplImplPhased      = "extract.implementation.phased"
	tmplImplDefault     = "extract.implementation.default"
	tmplROIComputed     = "extract.roi.computed"
	tmplROIDefault      = "extract.roi.default"
	tmplFallbackReason  = "fallback.reasoning"
	tmplFallbackImpl    = "fallback.implementation"
	tmplFallbackROI     = "fallback.roi"
	tmplPromptProfile   = "prompt.profile_header"
	tmplPromptHistory   = "prompt.history_header"
	tmplPromptUserLabel = "prompt.current_message"
)

var replyTemplateByType = map[ConsultationType]string{
	ConsultationROI:              tmplReplyROI,
	ConsultationPricing:          tmplReplyPricing,
	ConsultationDemo:             tmplReplyDemo,
	ConsultationIndustrySpecific: tmplReplyIndustry,
	ConsultationGeneralHelp:      tmplReplyHelp,
	ConsultationGeneral:          tmplReplyGeneral,
}

// DefaultTexts is the bilingual wording of every reply the engine can produce.
var DefaultTexts = templates.MustNewTable(templates.Entries{
	tmplPreamble: {
		templates.English: "You are a senior sales consultant for a B2B robotics company. You help facility operators choose service robots for cleaning, delivery, reception, security, inspection, logistics, education and manufacturing. Recommend specific products by name, explain ROI with concrete percentages and payback periods in months, describe a phased implementation with staff training, and finish with one follow-up question. Answer in English.",
		templates.Arabic:  "أنت مستشار مبيعات أول في شركة روبوتات تخدم قطاع الأعمال. تساعد مشغلي المنشآت على اختيار روبوتات الخدمة للتنظيف والتوصيل والاستقبال والأمن والفحص والخدمات اللوجستية والتعليم والتصنيع. اذكر المنتجات بأسمائها، واشرح العائد على الاستثمار بنسب مئوية وفترات استرداد بالأشهر، وصف تنفيذاً على مراحل مع تدريب الموظفين، واختم بسؤال متابعة واحد. أجب باللغة العربية.",
	},
	tmplPromptProfile: {
		templates.English: "Customer profile:",
		templates.Arabic:  "ملف العميل:",
	},
	tmplPromptHistory: {
		templates.English: "Recent conversation:",
		templates.Arabic:  "المحادثة الأخيرة:",
	},
	tmplPromptUserLabel: {
		templates.English: "Current message:",
		templates.Arabic:  "الرسالة الحالية:",
	},
	tmplReplyROI: {
		templates.English: "For {{.Industry}} operations, our recommended fleet is {{.Products}}. Clients typically see {{.ROI}} with a payback period of {{.Payback}}. Key benefits include {{.Benefits}}. We recommend a phased rollout starting with a pilot area. Would you like a detailed ROI proposal for your facility?",
		templates.Arabic:  "لعمليات {{.Industry}}، نوصي بأسطول يضم {{.Products}}. يحقق عملاؤنا عادةً {{.ROI}} مع فترة استرداد تبلغ {{.Payback}}. من أبرز الفوائد {{.Benefits}}. ننصح بالتنفيذ على مراحل بدءاً بمنطقة تجريبية. هل تود الحصول على مقترح مفصل للعائد على الاستثمار لمنشأتك؟",
	},
	tmplReplyPricing: {
		templates.English: "Pricing for {{.Products}} depends on fleet size, site survey results and the service package you choose. Our {{.Industry}} clients typically recover their investment within {{.Payback}}, driven by {{.ROI}}. Would you like us to prepare a tailored proposal? You can also contact our sales team directly.",
		templates.Arabic:  "تعتمد أسعار {{.Products}} على حجم الأسطول ونتائج مسح الموقع وباقة الخدمة المختارة. يسترد عملاؤنا في قطاع {{.Industry}} استثمارهم عادةً خلال {{.Payback}} بفضل {{.ROI}}. هل تود أن نعد لك مقترحاً مخصصاً؟ يمكنك أيضاً التواصل مع فريق المبيعات مباشرة.",
	},
	tmplReplyDemo: {
		templates.English: "We'd be glad to arrange a live demonstration of {{.Products}} at your {{.Industry}} site. The demo covers {{.UseCases}}, and our engineers include hands-on training for your staff. Would you like to schedule a demo in the next two weeks?",
		templates.Arabic:  "يسعدنا ترتيب عرض حي لـ {{.Products}} في موقعك في قطاع {{.Industry}}. يشمل العرض {{.UseCases}}، ويقدم مهندسونا تدريباً عملياً لفريقك. هل تود تحديد موعد للعرض خلال الأسبوعين القادمين؟",
	},
	tmplReplyIndustry: {
		templates.English: "For {{.Industry}}, we recommend {{.Products}}. These robots deliver {{.Benefits}} and are used for {{.UseCases}}. Highlights: {{.Highlights}}. Expected ROI: {{.ROI}}, with payback in {{.Payback}}. Trusted by {{.Clients}}. What size is your facility, and how many shifts do you run?",
		templates.Arabic:  "لقطاع {{.Industry}}، نوصي بـ {{.Products}}. توفر هذه الروبوتات {{.Benefits}}، وتُستخدم في {{.UseCases}}. العائد المتوقع: {{.ROI}}، مع استرداد التكلفة خلال {{.Payback}}. من عملائنا: {{.Clients}}. ما هو حجم منشأتك وكم عدد نوبات العمل لديكم؟",
	},
	tmplReplyHelp: {
		templates.English: "I'm here to help you choose the right robots. For {{.Industry}} facilities we usually start with {{.Products}}, which deliver {{.Benefits}}. How can I help you plan your deployment?",
		templates.Arabic:  "أنا هنا لمساعدتك في اختيار الروبوتات المناسبة. في منشآت {{.Industry}} نبدأ عادةً بـ {{.Products}}، التي توفر {{.Benefits}}. كيف يمكنني مساعدتك في التخطيط للتشغيل؟",
	},
	tmplReplyGeneral: {
		templates.English: "Thanks for reaching out. For your {{.Industry}} facility, {{.Products}} are the best fit, delivering {{.Benefits}}. Expected ROI: {{.ROI}} with payback in {{.Payback}}. Would you like to browse our full catalog or speak with a specialist?",
		templates.Arabic:  "شكراً لتواصلك. لمنشأتك في قطاع {{.Industry}}، فإن {{.Products}} هي الأنسب، إذ توفر {{.Benefits}}. العائد المتوقع: {{.ROI}} مع استرداد التكلفة خلال {{.Payback}}. هل تود تصفح الكتالوج الكامل أو التحدث مع أحد المختصين؟",
	},
	tmplReplyOverview: {
		templates.English: "We offer a complete portfolio of service robots covering {{.Categories}}. Most clients cut operating costs by 30-50% within the first year. What industry are you in, and which tasks would you like to automate?",
		templates.Arabic:  "نقدم مجموعة متكاملة من روبوتات الخدمة تشمل {{.Categories}}. يخفض معظم عملائنا تكاليف التشغيل بنسبة 30-50% خلال السنة الأولى. ما هو مجال عملك، وما المهام التي تود أتمتتها؟",
	},
	tmplFallback: {
		templates.English: "Hello! I'm your robotics solutions consultant. I can help you find the right robots for your facility, estimate ROI and plan implementation. What industry are you in?",
		templates.Arabic:  "مرحباً! أنا مستشارك لحلول الروبوتات. يمكنني مساعدتك في اختيار الروبوتات المناسبة لمنشأتك وتقدير العائد على الاستثمار وتخطيط التنفيذ. ما هو مجال عملك؟",
	},
	tmplFallbackReason: {
		templates.English: "Autonomous cleaning robots are the fastest way to cut recurring labor costs in almost any facility.",
		templates.Arabic:  "روبوتات التنظيف الذاتية هي أسرع طريقة لخفض تكاليف العمالة المتكررة في أي منشأة تقريباً.",
	},
	tmplFallbackImpl: {
		templates.English: "We start with a free site survey and a pilot deployment in one area.",
		templates.Arabic:  "نبدأ بمسح مجاني للموقع وتشغيل تجريبي في منطقة واحدة.",
	},
	tmplFallbackROI: {
		templates.English: "Most clients see a 40% reduction in cleaning labor costs with payback in 8-12 months.",
		templates.Arabic:  "يحقق معظم عملائنا تخفيضاً بنسبة 40% في تكاليف عمالة التنظيف مع استرداد التكلفة خلال 8-12 شهراً.",
	},
	tmplReasonVoice: {
		templates.English: "Voice interaction with 97%+ speech recognition lets the robots serve visitors in English and Arabic without staff involvement.",
		templates.Arabic:  "يتيح التفاعل الصوتي بدقة تعرف على الكلام تتجاوز 97% خدمة الزوار بالعربية والإنجليزية دون تدخل الموظفين.",
	},
	tmplReasonDisplay: {
		templates.English: "The 36cm HD display keeps visitors informed and doubles as a digital signage channel.",
		templates.Arabic:  "تبقي الشاشة عالية الدقة مقاس 36 سم الزوار على اطلاع وتعمل كقناة للإعلانات الرقمية.",
	},
	tmplReasonAutonomy: {
		templates.English: "Fully autonomous operation lets the robots work around the clock with minimal supervision.",
		templates.Arabic:  "يتيح التشغيل الذاتي الكامل للروبوتات العمل على مدار الساعة بأقل قدر من الإشراف.",
	},
	tmplReasonDefault: {
		templates.English: "These robots match the workload of your facility and are proven with similar clients.",
		templates.Arabic:  "تتناسب هذه الروبوتات مع حجم العمل في منشأتك وقد أثبتت كفاءتها لدى عملاء مماثلين.",
	},
	tmplImplTraining: {
		templates.English: "Our team handles on-site installation and staff training, and most deployments go live within 2-4 weeks.",
		templates.Arabic:  "يتولى فريقنا التركيب في الموقع وتدريب الموظفين، ويبدأ تشغيل معظم المشاريع خلال 2-4 أسابيع.",
	},
	tmplImplPhased: {
		templates.English: "We recommend a phased rollout: a pilot zone first, then expansion across the facility once the KPIs are confirmed.",
		templates.Arabic:  "نوصي بالتنفيذ على مراحل: منطقة تجريبية أولاً، ثم التوسع في كامل المنشأة بعد تأكيد مؤشرات الأداء.",
	},
	tmplImplDefault: {
		templates.English: "Implementation includes a site survey, mapping, integration with your existing systems and ongoing support.",
		templates.Arabic:  "يشمل التنفيذ مسح الموقع ورسم الخرائط والتكامل مع أنظمتك الحالية والدعم المستمر.",
	},
	tmplROIComputed: {
		templates.English: "Expected {{.Percent}}% {{.Kind}} with payback in {{.Min}}-{{.Max}} months.",
		templates.Arabic:  "نتوقع {{.Kind}} بنسبة {{.Percent}}% مع استرداد التكلفة خلال {{.Min}}-{{.Max}} شهراً.",
	},
	tmplROIDefault: {
		templates.English: "Guaranteed ROI: most clients recover their investment within 12-18 months.",
		templates.Arabic:  "عائد مضمون على الاستثمار: يسترد معظم عملائنا استثمارهم خلال 12-18 شهراً.",
	},
})

// joinList renders "a, b and c" in the conventions of lang.
func joinList(lang templates.Language, items []string) string {
	sep, last := ", ", " and "
	if lang == templates.Arabic {
		sep, last = "، ", " و"
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], sep) + last + items[len(items)-1]
}
