package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/model"
)

var (
	docOnce     sync.Once
	docValidate *govalidator.Validate
	docTrans    ut.Translator
)

// documentValidator returns the engine used for certification documents. It
// reads the `validate` struct tags of the model, unlike gin's binding engine.
func documentValidator() (*govalidator.Validate, ut.Translator) {
	docOnce.Do(func() {
		docValidate = govalidator.New(govalidator.WithRequiredStructEnabled())
		docValidate.RegisterTagNameFunc(jsonTagName)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		docTrans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(docValidate, docTrans)
	})
	return docValidate, docTrans
}

// ValidateCertification checks a certification document before it is stored
// and returns human-readable problems in document order. An empty result
// means the document is valid.
func ValidateCertification(cert model.Certification) []string {
	v, tr := documentValidator()
	problems := []string{}

	if err := v.Struct(cert); err != nil {
		var ve govalidator.ValidationErrors
		if !errors.As(err, &ve) {
			return append(problems, err.Error())
		}
		for _, fe := range ve {
			problems = append(problems, fmt.Sprintf("%s: %s", fieldPath(fe.Namespace()), fe.Translate(tr)))
		}
	}

	for _, id := range certification.DuplicateIDs(cert) {
		problems = append(problems, fmt.Sprintf("id %q is used by more than one element", id))
	}

	return problems
}

// fieldPath drops the root struct name from a validator namespace, so
// "Certification.questions[0].text" becomes "questions[0].text".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
