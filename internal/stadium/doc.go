// Package stadium derives venue slugs from scraped game locations and checks
// which venues already have an image on file.
//
// A location such as "Lincoln, Neb. / Memorial Stadium" is split on "/" into
// city and stadium and slugified as "<stadium>-<city>", giving
// "memorial-stadium-lincoln-neb". Images are expected as <slug>.jpg, .png or
// .webp. The first game to produce a slug owns it; later games with the same
// slug are ignored, even when their raw location text differs.
package stadium
