package validator

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	zhtrans "github.com/go-playground/validator/v10/translations/zh"
)

// 手机号：可选的+号，5到15位数字
var phoneRegexp = regexp.MustCompile(`^\+?[0-9]{5,15}$`)

var (
	once  sync.Once
	trans ut.Translator
)

type ginValidator struct {
	validate *validator.Validate
}

var _ binding.StructValidator = (*ginValidator)(nil)

func (v *ginValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(obj)
}

func (v *ginValidator) Engine() interface{} {
	return v.validate
}

// LazyInitGinValidator 替换gin默认的validator，注册自定义规则和翻译器
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v := New(language)
		binding.Validator = &ginValidator{validate: v}
	})
}

// New 创建一个带有自定义规则和翻译的validator
func New(language string) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())
	switch language {
	case "zh":
		trans, _ = uni.GetTranslator("zh")
		_ = zhtrans.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("phone", trans, func(t ut.Translator) error {
			return t.Add("phone", "{0}必须是有效的手机号", true)
		}, translatePhone)
	default:
		trans, _ = uni.GetTranslator("en")
		_ = entrans.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("phone", trans, func(t ut.Translator) error {
			return t.Add("phone", "{0} must be a valid phone number", true)
		}, translatePhone)
	}
	return v
}

func translatePhone(t ut.Translator, fe validator.FieldError) string {
	msg, _ := t.T("phone", fe.Field())
	return msg
}

// Translate 把校验错误翻译成可读的提示，非校验错误原样返回
func Translate(err error) string {
	if err == nil {
		return ""
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
