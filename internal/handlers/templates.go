package handlers

import "html/template"

// Server-rendered pages for the scan-facing endpoints. These deliberately
// expose nothing beyond name, company and the registered flag.
const verifyResultPage = `<html>
  <head>
    <title>Product Verification</title>
  </head>
  <body>
    <h1>Product Verified</h1>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Company:</strong> {{.Company}}</p>
    <p><strong>Registered:</strong> {{.Registered}}</p>
  </body>
</html>`

const verifyNotFoundPage = `<html>
  <head>
    <title>Product Verification</title>
  </head>
  <body>
    <h1>Product not found</h1>
  </body>
</html>`

const verifyErrorPage = `<html>
  <head>
    <title>Product Verification</title>
  </head>
  <body>
    <h1>Something went wrong</h1>
  </body>
</html>`

const routeNotFoundPage = `<html>
  <body>
    <h1>404 - Route Not Found</h1>
  </body>
</html>`

// Templates builds the template set the router installs on the gin engine.
func Templates() (*template.Template, error) {
	t := template.New("pages")

	pages := map[string]string{
		"verify_result.html":    verifyResultPage,
		"verify_not_found.html": verifyNotFoundPage,
		"verify_error.html":     verifyErrorPage,
		"route_not_found.html":  routeNotFoundPage,
	}

	for name, body := range pages {
		if _, err := t.New(name).Parse(body); err != nil {
			return nil, err
		}
	}

	return t, nil
}
