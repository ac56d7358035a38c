package validate

const msgPrefix = "msg."

// Messages per locale. A "field" key covers every rule of that field,
// a "field.tag" key overrides it for one rule.
var messages = map[string]map[string]string{
	"en": {
		"title":          "Title must be at least 3 characters",
		"price":          "Enter a valid price",
		"img":            "Enter a valid image URL",
		"email":          "Enter a valid email",
		"email.taken":    "This email is already taken",
		"password":       "Password must be 6 to 56 latin letters or digits",
		"confirm":        "Passwords must match",
		"name":           "Name must be at least 3 characters",
		"login.invalid":  "Wrong email or password",
		"login.throttle": "Too many login attempts, try again later",
	},
	"ru": {
		"title":          "Минимальная длина названия 3 символа",
		"price":          "Введите корректную цену",
		"img":            "Введите корректный Url картинки",
		"email":          "Введите корректный email",
		"email.taken":    "Такой email уже занят",
		"password":       "Пароль должен быть минимум 6 символов",
		"confirm":        "Пароли должны совпадать",
		"name":           "Имя должно быть минимум 3 символа",
		"login.invalid":  "Неверный email или пароль",
		"login.throttle": "Слишком много попыток входа, попробуйте позже",
	},
}
