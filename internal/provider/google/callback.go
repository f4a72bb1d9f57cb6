package google

import (
	"fmt"
	"net/http"
)

type callbackResult struct {
	code string
	err  error
}

const callbackPage = `<!DOCTYPE html><html><body><p>%s</p></body></html>`

// callbackHandler receives the authorization redirect and reports the first
// outcome on results
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	report := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if q.Get("state") != state {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "Login gagal. Silakan coba lagi.")
			report(callbackResult{err: ErrStateMismatch})
			return
		}
		if reason := q.Get("error"); reason != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "Login dibatalkan.")
			report(callbackResult{err: fmt.Errorf("sign-in was not completed: %s", reason)})
			return
		}
		code := q.Get("code")
		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "Login gagal. Silakan coba lagi.")
			report(callbackResult{err: ErrMissingCode})
			return
		}

		fmt.Fprintf(w, callbackPage, "Login berhasil. Anda dapat menutup jendela ini.")
		report(callbackResult{code: code})
	})
	return mux
}
