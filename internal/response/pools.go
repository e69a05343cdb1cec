package response

import "github.com/ananyak/mindmate/internal/emotion"

// Language selects a localized response pool.
type Language string

const (
	LangEnglish  Language = "en"
	LangHindi    Language = "hi"
	LangHinglish Language = "hinglish"
)

// Languages lists every supported language.
var Languages = []Language{LangEnglish, LangHindi, LangHinglish}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LangEnglish, LangHindi, LangHinglish:
		return true
	}
	return false
}

// SuggestedAction is a wellness activity recommended alongside a response.
type SuggestedAction string

const (
	ActionRelax   SuggestedAction = "relax"
	ActionLearn   SuggestedAction = "learn"
	ActionChat    SuggestedAction = "chat"
	ActionBreathe SuggestedAction = "breathe"
	ActionNone    SuggestedAction = ""
)

type pool map[Language][]string

var sadPool = pool{
	LangEnglish: {
		"Hey, I can see you're going through something tough right now. Remember, every storm passes, and you're stronger than you think! 💙",
		"It's okay to feel sad sometimes. You're human, and that's beautiful. Would you like to try some deep breathing with me?",
		"I'm here with you. Your feelings are valid, and tomorrow is a fresh start full of possibilities. 🌅",
		"You're not alone in this feeling. Even the darkest nights end with a sunrise. Let me support you through this. 🌙",
		"I see the weight you're carrying. You're incredibly brave for facing today. Let's take it one moment at a time. 💪",
		"Your sadness shows how deeply you care. That's a beautiful quality. Would you like to talk about it or try a calming exercise?",
	},
	LangHindi: {
		"मैं देख सकता हूं कि आप कुछ मुश्किल से गुजर रहे हैं। याद रखें, हर तूफान गुजर जाता है! 💙",
		"कभी-कभी उदास महसूस करना ठीक है। आप इंसान हैं, और यह खूबसूरत है। 🌅",
		"मैं आपके साथ हूं। आपकी भावनाएं मान्य हैं। कल एक नई शुरुआत है। 💪",
	},
	LangHinglish: {
		"Main dekh sakta hoon aap kuch mushkil se guzar rahe hain. Yaad rakhein, har toofan guzar jaata hai! 💙",
		"Kabhi-kabhi udaas feel karna theek hai. Aap insaan hain, aur yeh khoobsurat hai. 🌅",
		"Main aapke saath hoon. Kal ek nayi shuruaat hai full of possibilities! 💪",
	},
}

var happyPool = pool{
	LangEnglish: {
		"That beautiful smile is contagious! I love seeing you this happy. Let's make today even more amazing! ✨",
		"Your positive energy is incredible! Ready to learn something awesome or spread more joy?",
		"You're glowing today! This happiness looks perfect on you. Let's channel this energy into something great! 🌟",
		"That smile just made my day! Your joy is inspiring. What amazing things shall we accomplish together today?",
		"I can feel your happiness from here! This is the perfect energy for learning and growing. Let's go! 🚀",
		"Your radiant smile tells me today is going to be wonderful! Ready to make it even better?",
	},
	LangHindi: {
		"यह खूबसूरत मुस्कान संक्रामक है! आज को और भी शानदार बनाते हैं! ✨",
		"आपकी सकारात्मक ऊर्जा अविश्वसनीय है! कुछ नया सीखने के लिए तैयार हैं?",
		"आप आज चमक रहे हैं! यह खुशी आप पर बिल्कुल सही लग रही है! 🌟",
	},
	LangHinglish: {
		"Yeh beautiful smile contagious hai! Aaj ko aur bhi amazing banate hain! ✨",
		"Aapki positive energy incredible hai! Kuch naya seekhne ke liye ready?",
		"Aap aaj glow kar rahe ho! Yeh happiness aap par perfect lag rahi hai! 🌟",
	},
}

var angryPool = pool{
	LangEnglish: {
		"I can see you're feeling frustrated. Let's turn that fire into fuel for success! You've got this! 🔥",
		"Anger shows you care deeply. Let's take a moment to breathe and transform this energy into something powerful.",
		"You're stronger than whatever is making you angry. Want to try a quick calming exercise together?",
		"I feel your frustration. That intensity can be channeled into amazing achievements. Let's redirect this energy! 💪",
		"You have every right to feel angry. Now let's use that passion to overcome what's bothering you. Ready?",
		"Frustration means you're pushing boundaries. That's growth! Let's breathe and tackle this together. 🌬️",
	},
	LangHindi: {
		"मैं देख सकता हूं कि आप निराश महसूस कर रहे हैं। इस आग को सफलता के लिए ईंधन में बदलें! 🔥",
		"गुस्सा दिखाता है कि आप गहराई से परवाह करते हैं। चलिए सांस लें और इस ऊर्जा को शक्तिशाली में बदलें।",
		"आप जो भी आपको गुस्सा दिला रहा है उससे मजबूत हैं। शांत व्यायाम करें? 💪",
	},
	LangHinglish: {
		"Main dekh sakta hoon aap frustrated feel kar rahe hain. Is fire ko fuel mein badlein! 🔥",
		"Gussa dikhata hai aap deeply care karte hain. Chaliye breathe karein aur energy transform karein.",
		"Aap jo bhi aapko angry bana raha hai usse strong hain. Calming exercise try karein? 💪",
	},
}

var surprisedPool = pool{
	LangEnglish: {
		"Whoa! I love that surprised look! Ready for more amazing discoveries today? 🎉",
		"Something caught your attention! That curiosity is going to take you far. Let's explore together!",
		"That expression of wonder is beautiful! Your mind is ready to learn. What shall we discover?",
		"Surprise is the beginning of discovery! I love seeing that spark in your eyes. Let's keep it going! ✨",
		"Your curiosity is showing! This is the perfect mindset for learning new things. Ready to dive in?",
	},
	LangHindi: {
		"वाह! मुझे वह आश्चर्यचकित नज़र पसंद है! आज और अद्भुत खोजों के लिए तैयार? 🎉",
		"कुछ ने आपका ध्यान खींचा! यह जिज्ञासा आपको दूर ले जाएगी। साथ में खोजें!",
		"आश्चर्य की यह अभिव्यक्ति सुंदर है! आपका दिमाग सीखने के लिए तैयार है! ✨",
	},
	LangHinglish: {
		"Whoa! Mujhe woh surprised look pasand hai! Aaj aur amazing discoveries ke liye ready? 🎉",
		"Kuch ne aapka dhyaan khincha! Yeh curiosity aapko door le jayegi. Saath mein explore karein!",
		"Surprise ki yeh expression beautiful hai! Aapka mind seekhne ke liye ready hai! ✨",
	},
}

var neutralPool = pool{
	LangEnglish: {
		"I can sense you're feeling neutral today. That's perfectly fine - even small steps forward count! 🚶‍♂️",
		"Starting slow is still starting! What would make your day a little brighter right now?",
		"Every day doesn't have to be perfect. You're here, and that's what matters. Let's take it easy today. ☘️",
		"Feeling neutral is okay. Not every moment needs to be extraordinary. How can I support you today?",
		"I see you're in a calm state. That's a good foundation. What small thing can we accomplish together?",
		"Neutral is peaceful. Sometimes that's exactly what we need. Ready for a gentle start?",
	},
	LangHindi: {
		"मैं महसूस कर सकता हूं कि आप आज तटस्थ महसूस कर रहे हैं। यह बिल्कुल ठीक है! 🚶‍♂️",
		"धीरे शुरू करना भी शुरू करना है! आज आपके दिन को थोड़ा उज्जवल क्या बना सकता है?",
		"हर दिन परफेक्ट होना जरूरी नहीं। आप यहां हैं, और यही मायने रखता है। ☘️",
	},
	LangHinglish: {
		"Main feel kar sakta hoon aap aaj neutral feel kar rahe hain. Yeh perfectly fine hai! 🚶‍♂️",
		"Slow start bhi start hai! Aaj aapke din ko thoda brighter kya bana sakta hai?",
		"Har din perfect hona zaroori nahi. Aap yahan hain, aur yahi matters. ☘️",
	},
}

var fearfulPool = pool{
	LangEnglish: {
		"I see some worry in your eyes. You're braver than you believe and stronger than you feel. I'm here to support you! 🛡️",
		"Anxiety is just excitement without breath. Let's breathe together and turn this nervousness into power!",
		"You've overcome challenges before, and you'll overcome this too. One breath at a time. 🌬️",
		"I can sense your anxiety. Remember, courage isn't the absence of fear - it's moving forward despite it. You've got this! 💪",
		"Those worried eyes tell me you care deeply. Let's transform that anxiety into focused energy together.",
		"Fear is temporary, but your strength is permanent. Let's face this together with some calming breaths. 🧘",
	},
	LangHindi: {
		"मैं आपकी आंखों में कुछ चिंता देखता हूं। आप जितना मानते हैं उससे बहादुर हैं! 🛡️",
		"चिंता बस सांस के बिना उत्साह है। साथ में सांस लें और इस घबराहट को शक्ति में बदलें!",
		"आपने पहले चुनौतियों को पार किया है, और आप इसे भी पार करेंगे। एक सांस एक समय में। 🌬️",
	},
	LangHinglish: {
		"Main aapki aankhon mein kuch worry dekhta hoon. Aap jitna believe karte hain usse brave hain! 🛡️",
		"Anxiety bas excitement hai without breath. Saath mein breathe karein aur nervousness ko power mein badlein!",
		"Aapne pehle challenges overcome kiye hain, aur aap isse bhi karenge. Ek breath ek time mein. 🌬️",
	},
}

var disgustedPool = pool{
	LangEnglish: {
		"I can see something's bothering you. Let's shift focus to something positive and uplifting! 🌈",
		"That reaction shows you have strong values. Let's channel that into something constructive together.",
		"I sense discomfort. How about we move to something that brings you joy instead?",
	},
	LangHindi: {
		"मैं देख सकता हूं कि कुछ आपको परेशान कर रहा है। चलिए कुछ सकारात्मक पर ध्यान दें! 🌈",
		"यह प्रतिक्रिया दिखाती है कि आपके पास मजबूत मूल्य हैं। इसे रचनात्मक में बदलें।",
	},
	LangHinglish: {
		"Main dekh sakta hoon kuch aapko bother kar raha hai. Chaliye kuch positive par focus karein! 🌈",
		"Yeh reaction dikhata hai aapke paas strong values hain. Isse constructive mein channel karein.",
	},
}

var poolsByEmotion = map[emotion.Emotion]pool{
	emotion.Sad:       sadPool,
	emotion.Happy:     happyPool,
	emotion.Angry:     angryPool,
	emotion.Surprised: surprisedPool,
	emotion.Neutral:   neutralPool,
	emotion.Fearful:   fearfulPool,
	emotion.Disgusted: disgustedPool,
}

// TimeOfDay buckets a local hour for greeting selection.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimeOfDayFor buckets hour: [0,12) morning, [12,17) afternoon,
// [17,21) evening, [21,24) night.
func TimeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour < 12:
		return Morning
	case hour < 17:
		return Afternoon
	case hour < 21:
		return Evening
	default:
		return Night
	}
}

var greetingPrefixes = map[TimeOfDay]map[Language]string{
	Morning: {
		LangEnglish:  "Good morning! ",
		LangHindi:    "सुप्रभात! ",
		LangHinglish: "Good morning! ",
	},
	Afternoon: {
		LangEnglish:  "Good afternoon! ",
		LangHindi:    "नमस्ते! ",
		LangHinglish: "Good afternoon! ",
	},
	Evening: {
		LangEnglish:  "Good evening! ",
		LangHindi:    "शुभ संध्या! ",
		LangHinglish: "Good evening! ",
	},
	Night: {
		LangEnglish:  "Hey there! ",
		LangHindi:    "नमस्ते! ",
		LangHinglish: "Hey! ",
	},
}
